package garmin

import (
	"context"
	"iter"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	go_json "github.com/goccy/go-json"
)

type activityService struct {
	client *Client
}

const activityPageSize = 20

func (s *activityService) List(ctx context.Context, start, limit int) ([]Activity, error) {
	query := url.Values{
		"start": {strconv.Itoa(start)},
		"limit": {strconv.Itoa(limit)},
	}
	var activities []Activity
	if err := s.client.call(ctx, OpActivities, nil, query, nil, &activities); err != nil {
		return nil, err
	}
	return activities, nil
}

// Last returns the most recent activity, or nil when the account has none.
func (s *activityService) Last(ctx context.Context) (*Activity, error) {
	activities, err := s.List(ctx, 0, 1)
	if err != nil {
		return nil, err
	}
	if len(activities) == 0 {
		return nil, nil
	}
	return &activities[0], nil
}

// ByDate streams every activity in [start, end], newest first, paging
// through the search endpoint. An empty activityType matches all types.
func (s *activityService) ByDate(ctx context.Context, start, end time.Time, activityType string) iter.Seq2[Activity, error] {
	query := url.Values{
		"startDate": {formatDate(start)},
		"endDate":   {formatDate(end)},
	}
	if activityType != "" {
		query.Set("activityType", activityType)
	}
	return Paginate[Activity](ctx, s.client, OpActivities, nil, query, activityPageSize)
}

func (s *activityService) Get(ctx context.Context, id int64) (go_json.RawMessage, error) {
	return s.byID(ctx, OpActivity, id)
}

func (s *activityService) Details(ctx context.Context, id int64) (go_json.RawMessage, error) {
	return s.byID(ctx, OpActivityDetails, id)
}

func (s *activityService) Splits(ctx context.Context, id int64) (go_json.RawMessage, error) {
	return s.byID(ctx, OpActivitySplits, id)
}

func (s *activityService) TypedSplits(ctx context.Context, id int64) (go_json.RawMessage, error) {
	return s.byID(ctx, OpActivityTypedSplits, id)
}

func (s *activityService) SplitSummaries(ctx context.Context, id int64) (go_json.RawMessage, error) {
	return s.byID(ctx, OpActivitySplitSummaries, id)
}

func (s *activityService) Weather(ctx context.Context, id int64) (go_json.RawMessage, error) {
	return s.byID(ctx, OpActivityWeather, id)
}

func (s *activityService) HRTimeInZones(ctx context.Context, id int64) (go_json.RawMessage, error) {
	return s.byID(ctx, OpActivityHRZones, id)
}

func (s *activityService) ExerciseSets(ctx context.Context, id int64) (go_json.RawMessage, error) {
	return s.byID(ctx, OpActivityExerciseSets, id)
}

func (s *activityService) Types(ctx context.Context) (go_json.RawMessage, error) {
	var raw go_json.RawMessage
	if err := s.client.call(ctx, OpActivityTypes, nil, nil, nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func (s *activityService) SetName(ctx context.Context, id int64, name string) error {
	body := map[string]any{
		"activityId":   id,
		"activityName": name,
	}
	return s.client.call(ctx, OpSetActivityName, activityParams(id), nil, body, nil)
}

func (s *activityService) SetVisibility(ctx context.Context, id int64, visibility Visibility) error {
	body := map[string]any{
		"activityId":           id,
		"accessControlRuleDTO": map[string]any{"typeKey": string(visibility)},
	}
	return s.client.call(ctx, OpSetActivityName, activityParams(id), nil, body, nil)
}

func (s *activityService) Delete(ctx context.Context, id int64) error {
	return s.client.call(ctx, OpDeleteActivity, activityParams(id), nil, nil, nil)
}

// Download exports an activity in the requested format and returns the raw
// file bytes. FormatOriginal yields a zip archive containing the FIT file
// recorded by the device.
func (s *activityService) Download(ctx context.Context, id int64, format DownloadFormat) ([]byte, error) {
	var op Operation
	switch format {
	case FormatOriginal:
		op = OpDownloadOriginal
	case FormatTCX:
		op = OpDownloadTCX
	case FormatGPX:
		op = OpDownloadGPX
	case FormatKML:
		op = OpDownloadKML
	case FormatCSV:
		op = OpDownloadCSV
	default:
		return nil, &FormatError{Format: string(format)}
	}
	return s.client.download(ctx, op, activityParams(id))
}

// Upload pushes a recorded activity file. The service accepts FIT, GPX,
// and TCX payloads; the extension of filename decides which.
func (s *activityService) Upload(ctx context.Context, filename string, data []byte) (go_json.RawMessage, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".fit", ".gpx", ".tcx":
	default:
		return nil, &FormatError{Format: filepath.Ext(filename)}
	}

	raw, err := s.client.uploadFile(ctx, OpUploadActivity, filepath.Base(filename), data)
	if err != nil {
		return nil, err
	}
	return go_json.RawMessage(raw), nil
}

func (s *activityService) byID(ctx context.Context, op Operation, id int64) (go_json.RawMessage, error) {
	var raw go_json.RawMessage
	if err := s.client.call(ctx, op, activityParams(id), nil, nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func activityParams(id int64) Params {
	return Params{"activityID": strconv.FormatInt(id, 10)}
}
