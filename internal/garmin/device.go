package garmin

import (
	"context"
	"net/url"
	"strconv"
	"time"

	go_json "github.com/goccy/go-json"
)

type deviceService struct {
	client *Client
}

func (s *deviceService) List(ctx context.Context) ([]Device, error) {
	var devices []Device
	if err := s.client.call(ctx, OpDevices, nil, nil, nil, &devices); err != nil {
		return nil, err
	}
	return devices, nil
}

func (s *deviceService) Settings(ctx context.Context, deviceID int64) (*DeviceSettings, error) {
	params := Params{"deviceID": strconv.FormatInt(deviceID, 10)}
	var settings DeviceSettings
	if err := s.client.call(ctx, OpDeviceSettings, params, nil, nil, &settings); err != nil {
		return nil, err
	}
	if settings.DeviceID == 0 {
		settings.DeviceID = deviceID
	}
	return &settings, nil
}

func (s *deviceService) LastUsed(ctx context.Context) (go_json.RawMessage, error) {
	var raw go_json.RawMessage
	if err := s.client.call(ctx, OpDeviceLastUsed, nil, nil, nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func (s *deviceService) PrimaryTraining(ctx context.Context) (go_json.RawMessage, error) {
	var raw go_json.RawMessage
	if err := s.client.call(ctx, OpPrimaryTrainingDevice, nil, nil, nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// Alarms collects the configured alarms across every registered device.
func (s *deviceService) Alarms(ctx context.Context) ([]DeviceAlarm, error) {
	devices, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	var alarms []DeviceAlarm
	for _, device := range devices {
		settings, err := s.Settings(ctx, device.DeviceID)
		if err != nil {
			return nil, err
		}
		alarms = append(alarms, settings.Alarms...)
	}
	return alarms, nil
}

// Solar returns the solar charging data a solar-capable device collected
// over the date range.
func (s *deviceService) Solar(ctx context.Context, deviceID int64, start, end time.Time) (go_json.RawMessage, error) {
	params := Params{
		"deviceID": strconv.FormatInt(deviceID, 10),
		"start":    formatDate(start),
		"end":      formatDate(end),
	}
	var raw go_json.RawMessage
	if err := s.client.call(ctx, OpDeviceSolar, params, nil, nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func (s *deviceService) Gear(ctx context.Context, userProfilePk int64) (go_json.RawMessage, error) {
	query := url.Values{"userProfilePk": {strconv.FormatInt(userProfilePk, 10)}}
	var raw go_json.RawMessage
	if err := s.client.call(ctx, OpGear, nil, query, nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func (s *deviceService) GearStats(ctx context.Context, gearUUID string) (go_json.RawMessage, error) {
	var raw go_json.RawMessage
	if err := s.client.call(ctx, OpGearStats, Params{"gearUUID": gearUUID}, nil, nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}
