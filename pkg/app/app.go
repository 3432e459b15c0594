package app

import (
	"log/slog"

	"github.com/amirasaad/fxconvert/infra/metrics"
	"github.com/amirasaad/fxconvert/pkg/cache"
	"github.com/amirasaad/fxconvert/pkg/config"
	"github.com/amirasaad/fxconvert/pkg/provider"
	"github.com/amirasaad/fxconvert/pkg/service/conversion"
	"github.com/prometheus/client_golang/prometheus"
)

// Deps holds the infrastructure the services are built from.
type Deps struct {
	RateCache    cache.RateTableCache
	RateProvider provider.RateTableProvider
	Metrics      *metrics.Metrics
	Gatherer     prometheus.Gatherer
	Logger       *slog.Logger
}

type App struct {
	Deps              *Deps
	Config            *config.App
	ConversionService *conversion.Service
}

func New(deps *Deps, cfg *config.App) *App {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.Nop()
	}
	return &App{
		Deps:              deps,
		Config:            cfg,
		ConversionService: conversion.NewService(deps.RateProvider, deps.Logger),
	}
}
