package garmin

import (
	"context"
	"iter"
	"net/url"
	"strconv"

	go_json "github.com/goccy/go-json"
)

type challengeService struct {
	client *Client
}

const goalPageSize = 30

func (s *challengeService) Adhoc(ctx context.Context, start, limit int) (go_json.RawMessage, error) {
	return s.page(ctx, OpAdhocChallenges, start, limit)
}

func (s *challengeService) BadgeChallenges(ctx context.Context, start, limit int) (go_json.RawMessage, error) {
	return s.page(ctx, OpBadgeChallenges, start, limit)
}

func (s *challengeService) AvailableBadgeChallenges(ctx context.Context, start, limit int) (go_json.RawMessage, error) {
	return s.page(ctx, OpAvailableBadgeChallenges, start, limit)
}

func (s *challengeService) NonCompletedBadgeChallenges(ctx context.Context, start, limit int) (go_json.RawMessage, error) {
	return s.page(ctx, OpNonCompletedBadgeChlngs, start, limit)
}

func (s *challengeService) VirtualChallenges(ctx context.Context, start, limit int) (go_json.RawMessage, error) {
	return s.page(ctx, OpInProgressVirtualChlngs, start, limit)
}

func (s *challengeService) EarnedBadges(ctx context.Context) (go_json.RawMessage, error) {
	var raw go_json.RawMessage
	if err := s.client.call(ctx, OpEarnedBadges, nil, nil, nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func (s *challengeService) PersonalRecords(ctx context.Context) (go_json.RawMessage, error) {
	name, err := s.client.displayNameParam()
	if err != nil {
		return nil, err
	}

	var raw go_json.RawMessage
	if err := s.client.call(ctx, OpPersonalRecords, Params{"displayName": name}, nil, nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// Goals streams the goals with the given status ("active", "future", or
// "past") across however many pages the account holds.
func (s *challengeService) Goals(ctx context.Context, status string) iter.Seq2[go_json.RawMessage, error] {
	query := url.Values{
		"status":    {status},
		"sortOrder": {"asc"},
	}
	return Paginate[go_json.RawMessage](ctx, s.client, OpGoals, nil, query, goalPageSize)
}

func (s *challengeService) page(ctx context.Context, op Operation, start, limit int) (go_json.RawMessage, error) {
	query := url.Values{
		"start": {strconv.Itoa(start)},
		"limit": {strconv.Itoa(limit)},
	}
	var raw go_json.RawMessage
	if err := s.client.call(ctx, op, nil, query, nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}
