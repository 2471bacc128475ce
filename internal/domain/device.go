package domain

type DeviceKind string

const (
	KindCamera     DeviceKind = "videoinput"
	KindMicrophone DeviceKind = "audioinput"
	KindSpeaker    DeviceKind = "audiooutput"
)

type Device struct {
	ID    string     `json:"deviceId"`
	Kind  DeviceKind `json:"kind"`
	Label string     `json:"label"`
}

// DeviceList groups devices by kind. Lists are never nil.
type DeviceList struct {
	Cameras     []Device `json:"cameras"`
	Microphones []Device `json:"microphones"`
	Speakers    []Device `json:"speakers"`
}

func EmptyDeviceList() DeviceList {
	return DeviceList{
		Cameras:     []Device{},
		Microphones: []Device{},
		Speakers:    []Device{},
	}
}

func GroupDevices(devices []Device) DeviceList {
	out := EmptyDeviceList()
	for _, d := range devices {
		switch d.Kind {
		case KindCamera:
			out.Cameras = append(out.Cameras, d)
		case KindMicrophone:
			out.Microphones = append(out.Microphones, d)
		case KindSpeaker:
			out.Speakers = append(out.Speakers, d)
		}
	}
	return out
}
