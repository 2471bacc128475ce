// Package devices lists host cameras and microphones through
// pion/mediadevices. Drivers are registered by the binary.
package devices

import (
	"context"
	"fmt"

	"github.com/dkeye/RTCAgent/internal/domain"
	"github.com/pion/mediadevices"
	"github.com/rs/zerolog/log"
)

var kinds = map[mediadevices.MediaDeviceType]domain.DeviceKind{
	mediadevices.VideoInput:  domain.KindCamera,
	mediadevices.AudioInput:  domain.KindMicrophone,
	mediadevices.AudioOutput: domain.KindSpeaker,
}

type Enumerator struct {
	list func() []mediadevices.MediaDeviceInfo
}

func NewEnumerator() *Enumerator {
	return &Enumerator{list: mediadevices.EnumerateDevices}
}

// EnumerateDevices converts the registered drivers into device
// descriptors. Unknown kinds are skipped.
func (e *Enumerator) EnumerateDevices(ctx context.Context) (devs []domain.Device, err error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	// drivers may panic when the platform refuses access
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("enumerate devices: %v", r)
		}
	}()

	infos := e.list()
	devs = make([]domain.Device, 0, len(infos))
	for _, info := range infos {
		kind, ok := kinds[info.Kind]
		if !ok {
			continue
		}
		label := info.Label
		if label == "" {
			label = info.DeviceID
		}
		devs = append(devs, domain.Device{ID: info.DeviceID, Kind: kind, Label: label})
	}
	log.Debug().Str("module", "devices").Int("count", len(devs)).Msg("enumerated")
	return devs, nil
}
