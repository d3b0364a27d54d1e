package models

import (
	"encoding/json"
	"time"

	"github.com/pkg/errors"
)

const timestampWireFormat = time.RFC3339

type Time struct {
	time.Time
}

func NewTime(t time.Time) Time {
	// Note: The API serves timestamps in UTC with second precision, so we
	// round before comparing or re-serializing values.
	return Time{Time: t.UTC().Truncate(time.Second)}
}

func NewTimePtr(t time.Time) *Time {
	newTime := NewTime(t)
	return &newTime
}

func (s Time) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.UTC().Format(timestampWireFormat))
}

func (s *Time) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return errors.Wrap(err, "error parsing timestamp")
	}
	parsedTime, err := time.Parse(timestampWireFormat, str)
	if err != nil {
		return errors.Wrap(err, "error parsing timestamp")
	}
	*s = Time{Time: parsedTime.UTC()}
	return nil
}
