package service

import "context"

// Service is a long-lived resource outside the fixed-step loop
// Results database, audio device and metric instruments run as services
//
// Lifecycle:
//  1. Construction
//  2. Init(ctx) opens resources; dependencies are already initialized
//  3. Start() begins background work, if any
//  4. Stop() releases everything and must be safe to call twice
type Service interface {
	// Name returns the unique identifier for this service
	Name() string

	// Dependencies returns names of services that must Init before this one
	Dependencies() []string

	Init(ctx context.Context) error
	Start() error
	Stop() error
}
