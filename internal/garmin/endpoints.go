package garmin

import (
	"net/http"
	"net/url"
	"strings"
)

// Operation names one entry in the endpoint catalog. Callers always pass
// the key explicitly; nothing is inferred from calling context.
type Operation string

// Params supplies values for the {name} placeholders in an endpoint
// template.
type Params map[string]string

const (
	OpUserSettings  Operation = "user.settings"
	OpSocialProfile Operation = "user.social_profile"

	OpUserSummary      Operation = "wellness.user_summary"
	OpUserSummaryChart Operation = "wellness.user_summary_chart"
	OpDailySteps       Operation = "wellness.daily_steps"
	OpDailyHeartRate   Operation = "wellness.daily_heart_rate"
	OpDailyRespiration Operation = "wellness.daily_respiration"
	OpDailySpO2        Operation = "wellness.daily_spo2"
	OpDailyStress      Operation = "wellness.daily_stress"
	OpBodyBattery      Operation = "wellness.body_battery"
	OpFloorsChart      Operation = "wellness.floors_chart"
	OpHydration        Operation = "wellness.hydration"
	OpAddHydration     Operation = "wellness.add_hydration"
	OpMaxMetrics       Operation = "wellness.max_metrics"
	OpHRV              Operation = "wellness.hrv"
	OpRequestReload    Operation = "wellness.request_reload"

	OpBodyComposition Operation = "weight.body_composition"
	OpWeighIns        Operation = "weight.range"
	OpDailyWeighIns   Operation = "weight.dayview"
	OpAddWeighIn      Operation = "weight.add"
	OpDeleteWeighIn   Operation = "weight.delete"

	OpActivities             Operation = "activity.search"
	OpActivity               Operation = "activity.get"
	OpActivityDetails        Operation = "activity.details"
	OpActivitySplits         Operation = "activity.splits"
	OpActivityTypedSplits    Operation = "activity.typed_splits"
	OpActivitySplitSummaries Operation = "activity.split_summaries"
	OpActivityWeather        Operation = "activity.weather"
	OpActivityHRZones        Operation = "activity.hr_time_in_zones"
	OpActivityExerciseSets   Operation = "activity.exercise_sets"
	OpActivityTypes          Operation = "activity.types"
	OpSetActivityName        Operation = "activity.set_name"
	OpDeleteActivity         Operation = "activity.delete"
	OpUploadActivity         Operation = "activity.upload"
	OpDownloadOriginal       Operation = "activity.download_original"
	OpDownloadTCX            Operation = "activity.download_tcx"
	OpDownloadGPX            Operation = "activity.download_gpx"
	OpDownloadKML            Operation = "activity.download_kml"
	OpDownloadCSV            Operation = "activity.download_csv"

	OpDevices               Operation = "device.list"
	OpDeviceSettings        Operation = "device.settings"
	OpDeviceLastUsed        Operation = "device.last_used"
	OpPrimaryTrainingDevice Operation = "device.primary_training"
	OpDeviceSolar           Operation = "device.solar"

	OpPersonalRecords           Operation = "records.personal"
	OpEarnedBadges              Operation = "badge.earned"
	OpAdhocChallenges           Operation = "challenge.adhoc"
	OpBadgeChallenges           Operation = "challenge.badge_completed"
	OpAvailableBadgeChallenges  Operation = "challenge.badge_available"
	OpNonCompletedBadgeChlngs   Operation = "challenge.badge_non_completed"
	OpInProgressVirtualChlngs   Operation = "challenge.virtual_in_progress"
	OpGoals                     Operation = "goal.list"
	OpTrainingReadiness         Operation = "metrics.training_readiness"
	OpTrainingStatus            Operation = "metrics.training_status"
	OpEnduranceScore            Operation = "metrics.endurance_score"
	OpEnduranceScoreStats       Operation = "metrics.endurance_score_stats"
	OpHillScore                 Operation = "metrics.hill_score"
	OpHillScoreStats            Operation = "metrics.hill_score_stats"
	OpGear                      Operation = "gear.filter"
	OpGearStats                 Operation = "gear.stats"
)

type endpoint struct {
	method   string
	template string
}

// endpoints is the process-wide catalog: loaded once, read-only thereafter.
var endpoints = map[Operation]endpoint{
	OpUserSettings:  {http.MethodGet, "/userprofile-service/userprofile/user-settings"},
	OpSocialProfile: {http.MethodGet, "/userprofile-service/socialProfile"},

	OpUserSummary:      {http.MethodGet, "/usersummary-service/usersummary/daily/{displayName}"},
	OpUserSummaryChart: {http.MethodGet, "/wellness-service/wellness/dailySummaryChart/{displayName}"},
	OpDailySteps:       {http.MethodGet, "/usersummary-service/stats/steps/daily/{start}/{end}"},
	OpDailyHeartRate:   {http.MethodGet, "/wellness-service/wellness/dailyHeartRate/{displayName}"},
	OpDailyRespiration: {http.MethodGet, "/wellness-service/wellness/daily/respiration/{date}"},
	OpDailySpO2:        {http.MethodGet, "/wellness-service/wellness/daily/spo2/{date}"},
	OpDailyStress:      {http.MethodGet, "/wellness-service/wellness/dailyStress/{date}"},
	OpBodyBattery:      {http.MethodGet, "/wellness-service/wellness/bodyBattery/reports/daily"},
	OpFloorsChart:      {http.MethodGet, "/wellness-service/wellness/floorsChartData/daily/{date}"},
	OpHydration:        {http.MethodGet, "/usersummary-service/usersummary/hydration/daily/{date}"},
	OpAddHydration:     {http.MethodPut, "/usersummary-service/usersummary/hydration/log"},
	OpMaxMetrics:       {http.MethodGet, "/metrics-service/metrics/maxmet/daily/{start}/{end}"},
	OpHRV:              {http.MethodGet, "/hrv-service/hrv/{date}"},
	OpRequestReload:    {http.MethodPost, "/wellness-service/wellness/epoch/request/{date}"},

	OpBodyComposition: {http.MethodGet, "/weight-service/weight/dateRange"},
	OpWeighIns:        {http.MethodGet, "/weight-service/user-weight/weight/range/{start}/{end}"},
	OpDailyWeighIns:   {http.MethodGet, "/weight-service/user-weight/weight/dayview/{date}"},
	OpAddWeighIn:      {http.MethodPost, "/weight-service/user-weight"},
	OpDeleteWeighIn:   {http.MethodDelete, "/weight-service/user-weight/weight/{date}/byversion/{samplePk}"},

	OpActivities:             {http.MethodGet, "/activitylist-service/activities/search/activities"},
	OpActivity:               {http.MethodGet, "/activity-service/activity/{activityID}"},
	OpActivityDetails:        {http.MethodGet, "/activity-service/activity/{activityID}/details"},
	OpActivitySplits:         {http.MethodGet, "/activity-service/activity/{activityID}/splits"},
	OpActivityTypedSplits:    {http.MethodGet, "/activity-service/activity/{activityID}/typedsplits"},
	OpActivitySplitSummaries: {http.MethodGet, "/activity-service/activity/{activityID}/split_summaries"},
	OpActivityWeather:        {http.MethodGet, "/activity-service/activity/{activityID}/weather"},
	OpActivityHRZones:        {http.MethodGet, "/activity-service/activity/{activityID}/hrTimeInZones"},
	OpActivityExerciseSets:   {http.MethodGet, "/activity-service/activity/{activityID}/exerciseSets"},
	OpActivityTypes:          {http.MethodGet, "/activity-service/activity/activityTypes"},
	OpSetActivityName:        {http.MethodPut, "/activity-service/activity/{activityID}"},
	OpDeleteActivity:         {http.MethodDelete, "/activity-service/activity/{activityID}"},
	OpUploadActivity:         {http.MethodPost, "/upload-service/upload"},
	OpDownloadOriginal:       {http.MethodGet, "/download-service/files/activity/{activityID}"},
	OpDownloadTCX:            {http.MethodGet, "/download-service/export/tcx/activity/{activityID}"},
	OpDownloadGPX:            {http.MethodGet, "/download-service/export/gpx/activity/{activityID}"},
	OpDownloadKML:            {http.MethodGet, "/download-service/export/kml/activity/{activityID}"},
	OpDownloadCSV:            {http.MethodGet, "/download-service/export/csv/activity/{activityID}"},

	OpDevices:               {http.MethodGet, "/device-service/deviceregistration/devices"},
	OpDeviceSettings:        {http.MethodGet, "/device-service/deviceservice/device-info/settings/{deviceID}"},
	OpDeviceLastUsed:        {http.MethodGet, "/device-service/deviceservice/mylastused"},
	OpPrimaryTrainingDevice: {http.MethodGet, "/web-gateway/device-info/primary-training-device"},
	OpDeviceSolar:           {http.MethodGet, "/web-gateway/solar/{deviceID}/{start}/{end}"},

	OpPersonalRecords:          {http.MethodGet, "/personalrecord-service/personalrecord/prs/{displayName}"},
	OpEarnedBadges:             {http.MethodGet, "/badge-service/badge/earned"},
	OpAdhocChallenges:          {http.MethodGet, "/adhocchallenge-service/adHocChallenge/historical"},
	OpBadgeChallenges:          {http.MethodGet, "/badgechallenge-service/badgeChallenge/completed"},
	OpAvailableBadgeChallenges: {http.MethodGet, "/badgechallenge-service/badgeChallenge/available"},
	OpNonCompletedBadgeChlngs:  {http.MethodGet, "/badgechallenge-service/badgeChallenge/non-completed"},
	OpInProgressVirtualChlngs:  {http.MethodGet, "/badgechallenge-service/virtualChallenge/inProgress"},
	OpGoals:                    {http.MethodGet, "/goal-service/goal/goals"},
	OpTrainingReadiness:        {http.MethodGet, "/metrics-service/metrics/trainingreadiness/{date}"},
	OpTrainingStatus:           {http.MethodGet, "/metrics-service/metrics/trainingstatus/aggregated/{date}"},
	OpEnduranceScore:           {http.MethodGet, "/metrics-service/metrics/endurancescore"},
	OpEnduranceScoreStats:      {http.MethodGet, "/metrics-service/metrics/endurancescore/stats"},
	OpHillScore:                {http.MethodGet, "/metrics-service/metrics/hillscore"},
	OpHillScoreStats:           {http.MethodGet, "/metrics-service/metrics/hillscore/stats"},
	OpGear:                     {http.MethodGet, "/gear-service/gear/filterGear"},
	OpGearStats:                {http.MethodGet, "/gear-service/gear/stats/{gearUUID}"},
}

// resolve maps an operation key to its HTTP method and concrete path, with
// every template placeholder substituted from params.
func resolve(op Operation, params Params) (method, path string, err error) {
	ep, ok := endpoints[op]
	if !ok {
		return "", "", &ConfigError{Op: op}
	}

	path, err = expandTemplate(op, ep.template, params)
	if err != nil {
		return "", "", err
	}
	return ep.method, path, nil
}

func expandTemplate(op Operation, template string, params Params) (string, error) {
	var b strings.Builder
	for {
		i := strings.IndexByte(template, '{')
		if i < 0 {
			b.WriteString(template)
			return b.String(), nil
		}
		b.WriteString(template[:i])
		template = template[i+1:]

		j := strings.IndexByte(template, '}')
		if j < 0 {
			return "", &ConfigError{Op: op, Missing: template}
		}

		name := template[:j]
		value, ok := params[name]
		if !ok {
			return "", &ConfigError{Op: op, Missing: name}
		}
		b.WriteString(url.PathEscape(value))
		template = template[j+1:]
	}
}
