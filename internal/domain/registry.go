package domain

import "errors"

// Agent is a forecasting agent (e.g. an AI model) whose predictions are evaluated
type Agent struct {
	ID       string
	Name     string
	Provider string
}

// Validate ensures the agent adheres to domain rules
func (a *Agent) Validate() error {
	if a.ID == "" {
		return errors.New("agent ID cannot be empty")
	}
	if a.Name == "" {
		return errors.New("agent name cannot be empty")
	}
	return nil
}

// Subject is the entity forecasts are made about (e.g. a commodity)
type Subject struct {
	ID       string
	Name     string
	Category string
	Unit     string
}

// Validate ensures the subject adheres to domain rules
func (s *Subject) Validate() error {
	if s.ID == "" {
		return errors.New("subject ID cannot be empty")
	}
	if s.Name == "" {
		return errors.New("subject name cannot be empty")
	}
	return nil
}
