package homework

import (
	"hwbot/internal/failure"
	"hwbot/internal/source"
)

// JSON keys of the status API.
const (
	keyRecords = "homeworks"
	keyName    = "homework_name"
	keyStatus  = "status"
)

// Schema failure details.
const (
	DetailNotObject      = "not_object"
	DetailMissingRecords = "missing_records"
	DetailRecordsNotList = "records_not_list"
	DetailMissingFields  = "missing_identity_or_status"
)

const opValidate = "homework.validate"

// Validate checks the payload shape and extracts the most recent record,
// which the API lists first.
//
// Errors are classified as KindSchema, KindEmptySequence or KindUnknownStatus.
func Validate(p source.Payload) (Record, error) {
	root, ok := p.Value().(map[string]any)
	if !ok {
		return Record{}, failure.New(failure.KindSchema, opValidate, DetailNotObject)
	}
	raw, ok := root[keyRecords]
	if !ok {
		return Record{}, failure.New(failure.KindSchema, opValidate, DetailMissingRecords)
	}
	list, ok := raw.([]any)
	if !ok {
		return Record{}, failure.New(failure.KindSchema, opValidate, DetailRecordsNotList)
	}
	if len(list) == 0 {
		return Record{}, failure.New(failure.KindEmptySequence, opValidate, "")
	}

	first, ok := list[0].(map[string]any)
	if !ok {
		return Record{}, failure.New(failure.KindSchema, opValidate, DetailMissingFields)
	}
	name, ok := first[keyName].(string)
	if !ok || name == "" {
		return Record{}, failure.New(failure.KindSchema, opValidate, DetailMissingFields)
	}
	rawStatus, present := first[keyStatus]
	status, ok := rawStatus.(string)
	if !present || !ok {
		return Record{}, failure.New(failure.KindSchema, opValidate, DetailMissingFields)
	}
	if !Status(status).Known() {
		return Record{}, failure.New(failure.KindUnknownStatus, opValidate, "").WithValue(status)
	}
	return Record{Name: name, Status: Status(status)}, nil
}
