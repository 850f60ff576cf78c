package garmin

import (
	"context"
	"net/url"
	"strconv"
	"time"

	go_json "github.com/goccy/go-json"

	"github.com/garrettladley/gconnect/internal/xslog"
)

type weightService struct {
	client *Client
}

const weighInTimeLayout = "2006-01-02T15:04:05.00"

func (s *weightService) Range(ctx context.Context, start, end time.Time) (go_json.RawMessage, error) {
	params := Params{"start": formatDate(start), "end": formatDate(end)}
	var raw go_json.RawMessage
	if err := s.client.call(ctx, OpWeighIns, params, nil, nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func (s *weightService) BodyComposition(ctx context.Context, start, end time.Time) (go_json.RawMessage, error) {
	query := url.Values{
		"startDate": {formatDate(start)},
		"endDate":   {formatDate(end)},
	}
	var raw go_json.RawMessage
	if err := s.client.call(ctx, OpBodyComposition, nil, query, nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func (s *weightService) Daily(ctx context.Context, date time.Time) (*DailyWeighIns, error) {
	query := url.Values{"includeAll": {"true"}}
	var day DailyWeighIns
	if err := s.client.call(ctx, OpDailyWeighIns, Params{"date": formatDate(date)}, query, nil, &day); err != nil {
		return nil, err
	}
	return &day, nil
}

func (s *weightService) Add(ctx context.Context, at time.Time, weight float64, unitKey string) error {
	body := map[string]any{
		"dateTimestamp": at.Format(weighInTimeLayout),
		"gmtTimestamp":  at.UTC().Format(weighInTimeLayout),
		"unitKey":       unitKey,
		"sourceType":    "MANUAL",
		"value":         weight,
	}
	return s.client.call(ctx, OpAddWeighIn, nil, nil, body, nil)
}

func (s *weightService) Delete(ctx context.Context, date time.Time, samplePk int64) error {
	params := Params{
		"date":     formatDate(date),
		"samplePk": strconv.FormatInt(samplePk, 10),
	}
	return s.client.call(ctx, OpDeleteWeighIn, params, nil, nil, nil)
}

// DeleteDay removes the weigh-ins recorded on the given day and reports how
// many were deleted. When the day holds more than one entry, nothing is
// deleted unless deleteAll is set; the caller gets ErrMultipleWeighIns so it
// can decide whether the bulk delete was intended.
func (s *weightService) DeleteDay(ctx context.Context, date time.Time, deleteAll bool) (int, error) {
	day, err := s.Daily(ctx, date)
	if err != nil {
		return 0, err
	}

	entries := day.DateWeightList
	if len(entries) == 0 {
		return 0, nil
	}
	if len(entries) > 1 && !deleteAll {
		return 0, ErrMultipleWeighIns
	}

	deleted := 0
	for _, entry := range entries {
		if err := s.Delete(ctx, date, entry.SamplePk); err != nil {
			return deleted, err
		}
		deleted++
	}

	s.client.logger.Debug("deleted weigh-ins",
		xslog.Date(formatDate(date)),
		xslog.Count(deleted),
	)
	return deleted, nil
}

func (s *weightService) UploadBodyComposition(ctx context.Context, fit []byte) error {
	_, err := s.client.uploadFile(ctx, OpUploadActivity, "body_composition.fit", fit)
	return err
}
