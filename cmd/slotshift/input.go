package main

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/noah-isme/daycard-scheduler/internal/shifter"
	"github.com/noah-isme/daycard-scheduler/internal/workday"
)

type policyFile struct {
	WorkingDays               []string          `yaml:"workingDays"`
	Holidays                  []workday.Holiday `yaml:"holidays"`
	AllowWorkOnNonWorkingDays bool              `yaml:"allowWorkOnNonWorkingDays"`
}

// scheduleFile is the document read by move and check.
type scheduleFile struct {
	Policy   policyFile     `yaml:"policy"`
	Schedule []shifter.Slot `yaml:"schedule"`
}

func loadScheduleFile(path string) (*scheduleFile, *workday.Policy, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	var doc scheduleFile
	if err := dec.Decode(&doc); err != nil {
		return nil, nil, fmt.Errorf("decode %s: %w", path, err)
	}

	labels := doc.Policy.WorkingDays
	if len(labels) == 0 && !doc.Policy.AllowWorkOnNonWorkingDays {
		labels = []string{"MONDAY", "TUESDAY", "WEDNESDAY", "THURSDAY", "FRIDAY"}
	}
	policy, err := workday.NewPolicyFromLabels(labels, doc.Policy.Holidays, doc.Policy.AllowWorkOnNonWorkingDays)
	if err != nil {
		return nil, nil, fmt.Errorf("policy in %s: %w", path, err)
	}
	if err := policy.Validate(); err != nil {
		return nil, nil, err
	}
	return &doc, policy, nil
}
