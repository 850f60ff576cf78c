package garmin

import "context"

type userService struct {
	client *Client
}

func (s *userService) Profile(ctx context.Context) (*SocialProfile, error) {
	var profile SocialProfile
	if err := s.client.call(ctx, OpSocialProfile, nil, nil, nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (s *userService) Settings(ctx context.Context) (*UserSettings, error) {
	var settings UserSettings
	if err := s.client.call(ctx, OpUserSettings, nil, nil, nil, &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}
