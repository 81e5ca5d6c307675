// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package provision

import (
	"errors"
	"fmt"

	"github.com/MKhiriev/womscp-server/internal/store"
)

// Step names the provisioning stage that failed.
type Step string

const (
	StepConfig Step = "config"
	StepOpen   Step = "open"
	StepSchema Step = "schema"
	StepSeed   Step = "seed"
	StepVerify Step = "verify"
	StepClose  Step = "close"
)

// Error is returned by [Provisioner.Provision]. MicrocontrollerID and
// SensorID are set only for seed failures and are -1 otherwise.
type Error struct {
	Step              Step
	MicrocontrollerID int
	SensorID          int
	Err               error
}

func newError(step Step, err error) *Error {
	e := &Error{Step: step, MicrocontrollerID: -1, SensorID: -1, Err: err}

	var insertErr *store.InsertError
	if step == StepSeed && errors.As(err, &insertErr) {
		e.MicrocontrollerID = insertErr.MicrocontrollerID
		e.SensorID = insertErr.SensorID
	}

	return e
}

func (e *Error) Error() string {
	return fmt.Sprintf("provisioning failed at %s step: %v", e.Step, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
