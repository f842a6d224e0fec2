package sensor

import "errors"

// FakeSample is one scripted reading (or failure) for the FakeSensor.
type FakeSample struct {
	Value   float64
	Inhibit bool
	Err     error
}

// FakeSensor is a test double that returns scripted samples.
type FakeSensor struct {
	// Samples contains scripted readings. Each call to Read() consumes the
	// next sample; when exhausted, the last sample repeats.
	Samples []FakeSample

	// index tracks current position in Samples
	index int

	// Closed tracks if Close was called
	Closed bool
}

// NewFakeSensor creates a FakeSensor with the given samples.
func NewFakeSensor(samples ...FakeSample) *FakeSensor {
	return &FakeSensor{Samples: samples}
}

// Values creates a FakeSensor from plain successful readings.
func Values(vs ...float64) *FakeSensor {
	samples := make([]FakeSample, len(vs))
	for i, v := range vs {
		samples[i] = FakeSample{Value: v}
	}
	return NewFakeSensor(samples...)
}

// Read returns the next scripted sample.
func (f *FakeSensor) Read() (Sample, error) {
	if len(f.Samples) == 0 {
		return Sample{}, errors.New("no samples configured")
	}

	s := f.Samples[f.index]
	if f.index < len(f.Samples)-1 {
		f.index++
	}

	if s.Err != nil {
		return Sample{}, s.Err
	}
	return Sample{Value: s.Value, Inhibit: s.Inhibit}, nil
}

// Close marks the sensor as closed.
func (f *FakeSensor) Close() error {
	f.Closed = true
	return nil
}

// Reset rewinds the sensor to the beginning of its samples.
func (f *FakeSensor) Reset() {
	f.index = 0
	f.Closed = false
}
