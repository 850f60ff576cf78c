package garmin

import (
	"context"
	"net/url"
	"time"

	go_json "github.com/goccy/go-json"
)

type wellnessService struct {
	client *Client
}

func (s *wellnessService) Summary(ctx context.Context, date time.Time) (*UserSummary, error) {
	name, err := s.client.displayNameParam()
	if err != nil {
		return nil, err
	}

	query := url.Values{"calendarDate": {formatDate(date)}}
	var summary UserSummary
	if err := s.client.call(ctx, OpUserSummary, Params{"displayName": name}, query, nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (s *wellnessService) SummaryChart(ctx context.Context, date time.Time) (go_json.RawMessage, error) {
	name, err := s.client.displayNameParam()
	if err != nil {
		return nil, err
	}

	query := url.Values{"date": {formatDate(date)}}
	var raw go_json.RawMessage
	if err := s.client.call(ctx, OpUserSummaryChart, Params{"displayName": name}, query, nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func (s *wellnessService) Steps(ctx context.Context, start, end time.Time) (go_json.RawMessage, error) {
	params := Params{"start": formatDate(start), "end": formatDate(end)}
	var raw go_json.RawMessage
	if err := s.client.call(ctx, OpDailySteps, params, nil, nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func (s *wellnessService) Floors(ctx context.Context, date time.Time) (go_json.RawMessage, error) {
	var raw go_json.RawMessage
	if err := s.client.call(ctx, OpFloorsChart, Params{"date": formatDate(date)}, nil, nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func (s *wellnessService) HeartRates(ctx context.Context, date time.Time) (go_json.RawMessage, error) {
	name, err := s.client.displayNameParam()
	if err != nil {
		return nil, err
	}

	query := url.Values{"date": {formatDate(date)}}
	var raw go_json.RawMessage
	if err := s.client.call(ctx, OpDailyHeartRate, Params{"displayName": name}, query, nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func (s *wellnessService) Respiration(ctx context.Context, date time.Time) (go_json.RawMessage, error) {
	return s.daily(ctx, OpDailyRespiration, date)
}

func (s *wellnessService) SpO2(ctx context.Context, date time.Time) (go_json.RawMessage, error) {
	return s.daily(ctx, OpDailySpO2, date)
}

func (s *wellnessService) Stress(ctx context.Context, date time.Time) (go_json.RawMessage, error) {
	return s.daily(ctx, OpDailyStress, date)
}

func (s *wellnessService) HRV(ctx context.Context, date time.Time) (go_json.RawMessage, error) {
	return s.daily(ctx, OpHRV, date)
}

func (s *wellnessService) BodyBattery(ctx context.Context, start, end time.Time) (go_json.RawMessage, error) {
	query := url.Values{
		"startDate": {formatDate(start)},
		"endDate":   {formatDate(end)},
	}
	var raw go_json.RawMessage
	if err := s.client.call(ctx, OpBodyBattery, nil, query, nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func (s *wellnessService) MaxMetrics(ctx context.Context, date time.Time) (go_json.RawMessage, error) {
	day := formatDate(date)
	var raw go_json.RawMessage
	if err := s.client.call(ctx, OpMaxMetrics, Params{"start": day, "end": day}, nil, nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func (s *wellnessService) Hydration(ctx context.Context, date time.Time) (go_json.RawMessage, error) {
	return s.daily(ctx, OpHydration, date)
}

func (s *wellnessService) AddHydration(ctx context.Context, at time.Time, valueML float64) (go_json.RawMessage, error) {
	body := map[string]any{
		"calendarDate":   formatDate(at),
		"timestampLocal": at.Format("2006-01-02T15:04:05.00"),
		"valueInML":      valueML,
	}

	var raw go_json.RawMessage
	if err := s.client.call(ctx, OpAddHydration, nil, nil, body, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func (s *wellnessService) TrainingReadiness(ctx context.Context, date time.Time) (go_json.RawMessage, error) {
	return s.daily(ctx, OpTrainingReadiness, date)
}

func (s *wellnessService) TrainingStatus(ctx context.Context, date time.Time) (go_json.RawMessage, error) {
	return s.daily(ctx, OpTrainingStatus, date)
}

func (s *wellnessService) EnduranceScore(ctx context.Context, start, end time.Time) (go_json.RawMessage, error) {
	if start.Equal(end) {
		query := url.Values{"calendarDate": {formatDate(start)}}
		var raw go_json.RawMessage
		if err := s.client.call(ctx, OpEnduranceScore, nil, query, nil, &raw); err != nil {
			return nil, err
		}
		return raw, nil
	}

	query := url.Values{
		"startDate":   {formatDate(start)},
		"endDate":     {formatDate(end)},
		"aggregation": {"weekly"},
	}
	var raw go_json.RawMessage
	if err := s.client.call(ctx, OpEnduranceScoreStats, nil, query, nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func (s *wellnessService) HillScore(ctx context.Context, start, end time.Time) (go_json.RawMessage, error) {
	if start.Equal(end) {
		query := url.Values{"calendarDate": {formatDate(start)}}
		var raw go_json.RawMessage
		if err := s.client.call(ctx, OpHillScore, nil, query, nil, &raw); err != nil {
			return nil, err
		}
		return raw, nil
	}

	query := url.Values{
		"startDate":   {formatDate(start)},
		"endDate":     {formatDate(end)},
		"aggregation": {"daily"},
	}
	var raw go_json.RawMessage
	if err := s.client.call(ctx, OpHillScoreStats, nil, query, nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// RequestReload asks the backend to re-sync epoch data for a day that has
// not been transferred from the device yet.
func (s *wellnessService) RequestReload(ctx context.Context, date time.Time) error {
	return s.client.call(ctx, OpRequestReload, Params{"date": formatDate(date)}, nil, nil, nil)
}

func (s *wellnessService) daily(ctx context.Context, op Operation, date time.Time) (go_json.RawMessage, error) {
	var raw go_json.RawMessage
	if err := s.client.call(ctx, op, Params{"date": formatDate(date)}, nil, nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}
