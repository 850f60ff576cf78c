package garmin

import (
	"context"
	"iter"
	"time"

	go_json "github.com/goccy/go-json"
)

type UserService interface {
	Profile(ctx context.Context) (*SocialProfile, error)
	Settings(ctx context.Context) (*UserSettings, error)
}

type WellnessService interface {
	Summary(ctx context.Context, date time.Time) (*UserSummary, error)
	SummaryChart(ctx context.Context, date time.Time) (go_json.RawMessage, error)
	Steps(ctx context.Context, start, end time.Time) (go_json.RawMessage, error)
	Floors(ctx context.Context, date time.Time) (go_json.RawMessage, error)
	HeartRates(ctx context.Context, date time.Time) (go_json.RawMessage, error)
	Respiration(ctx context.Context, date time.Time) (go_json.RawMessage, error)
	SpO2(ctx context.Context, date time.Time) (go_json.RawMessage, error)
	Stress(ctx context.Context, date time.Time) (go_json.RawMessage, error)
	HRV(ctx context.Context, date time.Time) (go_json.RawMessage, error)
	BodyBattery(ctx context.Context, start, end time.Time) (go_json.RawMessage, error)
	MaxMetrics(ctx context.Context, date time.Time) (go_json.RawMessage, error)
	Hydration(ctx context.Context, date time.Time) (go_json.RawMessage, error)
	AddHydration(ctx context.Context, at time.Time, valueML float64) (go_json.RawMessage, error)
	TrainingReadiness(ctx context.Context, date time.Time) (go_json.RawMessage, error)
	TrainingStatus(ctx context.Context, date time.Time) (go_json.RawMessage, error)
	EnduranceScore(ctx context.Context, start, end time.Time) (go_json.RawMessage, error)
	HillScore(ctx context.Context, start, end time.Time) (go_json.RawMessage, error)
	RequestReload(ctx context.Context, date time.Time) error
}

type WeightService interface {
	Range(ctx context.Context, start, end time.Time) (go_json.RawMessage, error)
	BodyComposition(ctx context.Context, start, end time.Time) (go_json.RawMessage, error)
	Daily(ctx context.Context, date time.Time) (*DailyWeighIns, error)
	Add(ctx context.Context, at time.Time, weight float64, unitKey string) error
	Delete(ctx context.Context, date time.Time, samplePk int64) error
	DeleteDay(ctx context.Context, date time.Time, deleteAll bool) (int, error)
	UploadBodyComposition(ctx context.Context, fit []byte) error
}

type ActivityService interface {
	List(ctx context.Context, start, limit int) ([]Activity, error)
	Last(ctx context.Context) (*Activity, error)
	ByDate(ctx context.Context, start, end time.Time, activityType string) iter.Seq2[Activity, error]
	Get(ctx context.Context, id int64) (go_json.RawMessage, error)
	Details(ctx context.Context, id int64) (go_json.RawMessage, error)
	Splits(ctx context.Context, id int64) (go_json.RawMessage, error)
	TypedSplits(ctx context.Context, id int64) (go_json.RawMessage, error)
	SplitSummaries(ctx context.Context, id int64) (go_json.RawMessage, error)
	Weather(ctx context.Context, id int64) (go_json.RawMessage, error)
	HRTimeInZones(ctx context.Context, id int64) (go_json.RawMessage, error)
	ExerciseSets(ctx context.Context, id int64) (go_json.RawMessage, error)
	Types(ctx context.Context) (go_json.RawMessage, error)
	SetName(ctx context.Context, id int64, name string) error
	SetVisibility(ctx context.Context, id int64, visibility Visibility) error
	Delete(ctx context.Context, id int64) error
	Download(ctx context.Context, id int64, format DownloadFormat) ([]byte, error)
	Upload(ctx context.Context, filename string, data []byte) (go_json.RawMessage, error)
}

type DeviceService interface {
	List(ctx context.Context) ([]Device, error)
	Settings(ctx context.Context, deviceID int64) (*DeviceSettings, error)
	LastUsed(ctx context.Context) (go_json.RawMessage, error)
	PrimaryTraining(ctx context.Context) (go_json.RawMessage, error)
	Solar(ctx context.Context, deviceID int64, start, end time.Time) (go_json.RawMessage, error)
	Alarms(ctx context.Context) ([]DeviceAlarm, error)
	Gear(ctx context.Context, userProfilePk int64) (go_json.RawMessage, error)
	GearStats(ctx context.Context, gearUUID string) (go_json.RawMessage, error)
}

type ChallengeService interface {
	Adhoc(ctx context.Context, start, limit int) (go_json.RawMessage, error)
	BadgeChallenges(ctx context.Context, start, limit int) (go_json.RawMessage, error)
	AvailableBadgeChallenges(ctx context.Context, start, limit int) (go_json.RawMessage, error)
	NonCompletedBadgeChallenges(ctx context.Context, start, limit int) (go_json.RawMessage, error)
	VirtualChallenges(ctx context.Context, start, limit int) (go_json.RawMessage, error)
	EarnedBadges(ctx context.Context) (go_json.RawMessage, error)
	PersonalRecords(ctx context.Context) (go_json.RawMessage, error)
	Goals(ctx context.Context, status string) iter.Seq2[go_json.RawMessage, error]
}
