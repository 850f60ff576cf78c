package garmin

import "time"

// dateLayout is the calendar-date format every endpoint speaks.
const dateLayout = "2006-01-02"

func formatDate(t time.Time) string {
	return t.Format(dateLayout)
}

type SocialProfile struct {
	ID          int64  `json:"id"`
	ProfileID   int64  `json:"profileId"`
	DisplayName string `json:"displayName"`
	FullName    string `json:"fullName"`
	UserName    string `json:"userName"`
	Location    string `json:"location,omitempty"`
}

type UserSettings struct {
	ID       int64    `json:"id"`
	UserData UserData `json:"userData"`
}

type UserData struct {
	Gender            string  `json:"gender"`
	Weight            float64 `json:"weight"`
	Height            float64 `json:"height"`
	MeasurementSystem string  `json:"measurementSystem"`
}

// UserSummary is the daily activity rollup. Only the commonly consumed
// fields are typed; the endpoint returns far more.
type UserSummary struct {
	UserProfileID         int64   `json:"userProfileId"`
	CalendarDate          string  `json:"calendarDate"`
	TotalSteps            int     `json:"totalSteps"`
	DailyStepGoal         int     `json:"dailyStepGoal"`
	TotalKilocalories     float64 `json:"totalKilocalories"`
	ActiveKilocalories    float64 `json:"activeKilocalories"`
	TotalDistanceMeters   float64 `json:"totalDistanceMeters"`
	FloorsAscended        float64 `json:"floorsAscended"`
	MinHeartRate          int     `json:"minHeartRate"`
	MaxHeartRate          int     `json:"maxHeartRate"`
	RestingHeartRate      int     `json:"restingHeartRate"`
	AverageStressLevel    int     `json:"averageStressLevel"`
	SleepingSeconds       int     `json:"sleepingSeconds"`
	BodyBatteryMostRecent int     `json:"bodyBatteryMostRecentValue"`
	PrivacyProtected      bool    `json:"privacyProtected"`
}

type Activity struct {
	ActivityID     int64        `json:"activityId"`
	ActivityName   string       `json:"activityName"`
	StartTimeLocal string       `json:"startTimeLocal"`
	StartTimeGMT   string       `json:"startTimeGMT"`
	Distance       float64      `json:"distance"`
	Duration       float64      `json:"duration"`
	Calories       float64      `json:"calories"`
	AverageHR      float64      `json:"averageHR"`
	ActivityType   ActivityType `json:"activityType"`
}

type ActivityType struct {
	TypeID  int64  `json:"typeId"`
	TypeKey string `json:"typeKey"`
}

// Visibility is an activity access-control key.
type Visibility string

const (
	VisibilityPublic      Visibility = "public"
	VisibilityPrivate     Visibility = "private"
	VisibilityConnections Visibility = "subscribers"
)

// DownloadFormat selects the export encoding for an activity download.
type DownloadFormat string

const (
	FormatOriginal DownloadFormat = "original" // zip around the device FIT file
	FormatTCX      DownloadFormat = "tcx"
	FormatGPX      DownloadFormat = "gpx"
	FormatKML      DownloadFormat = "kml"
	FormatCSV      DownloadFormat = "csv" // splits table
)

type WeighIn struct {
	SamplePk     int64   `json:"samplePk"`
	Date         int64   `json:"date"`
	CalendarDate string  `json:"calendarDate"`
	Weight       float64 `json:"weight"`
	SourceType   string  `json:"sourceType"`
	WeightDelta  float64 `json:"weightDelta,omitempty"`
}

type DailyWeighIns struct {
	StartDate      string    `json:"startDate"`
	EndDate        string    `json:"endDate"`
	DateWeightList []WeighIn `json:"dateWeightList"`
}

type Device struct {
	DeviceID           int64  `json:"deviceId"`
	ProductDisplayName string `json:"productDisplayName"`
	SerialNumber       string `json:"serialNumber"`
	PartNumber         string `json:"partNumber,omitempty"`
	SoftwareVersion    string `json:"softwareVersion,omitempty"`
}

type DeviceSettings struct {
	DeviceID int64         `json:"deviceId"`
	Alarms   []DeviceAlarm `json:"alarms"`
}

type DeviceAlarm struct {
	AlarmID   int64    `json:"alarmId"`
	AlarmTime int      `json:"alarmTime"`
	AlarmDays []string `json:"alarmDays"`
	Enabled   bool     `json:"alarmEnabled"`
}
