package service

import "axiom/internal/storage"

// ServiceContext wires the services with their repositories. Collaborators
// are passed in explicitly; nothing is constructed at import time.
type ServiceContext struct {
	Experiments *ExperimentService
	Executor    *RunExecutor
}

func NewServiceContext(experiments storage.ExperimentRepository, runs storage.RunRepository) *ServiceContext {
	return &ServiceContext{
		Experiments: NewExperimentService(experiments, runs),
		Executor:    NewRunExecutor(experiments, runs, GoDispatcher{}),
	}
}
