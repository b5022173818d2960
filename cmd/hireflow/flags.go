package main

import (
	"github.com/dukex/hireflow/pkg/providers/rest"
	"github.com/dukex/hireflow/pkg/scheduler"
	"github.com/urfave/cli/v3"
)

const (
	defaultPort        = 3000
	defaultDatabaseURL = "file://./data"
)

func logFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "log-level",
			Usage:   "Log level (debug, info, warn, error)",
			Value:   "info",
			Sources: cli.EnvVars("HIREFLOW_LOG_LEVEL"),
		},
		&cli.StringFlag{
			Name:    "log-format",
			Usage:   "Log format (text, json)",
			Value:   "text",
			Sources: cli.EnvVars("HIREFLOW_LOG_FORMAT"),
		},
	}
}

// engineFlags configure everything needed to execute workflows.
func engineFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "database-url",
			Usage:   "Persistence URL (file://<dir>, postgres://..., redis://...)",
			Value:   defaultDatabaseURL,
			Sources: cli.EnvVars("HIREFLOW_DATABASE_URL"),
		},
		&cli.StringFlag{
			Name:    "origin",
			Usage:   "Public base URL used to build webhook callback URLs",
			Value:   "http://localhost:3000",
			Sources: cli.EnvVars("HIREFLOW_ORIGIN"),
		},
		&cli.StringFlag{
			Name:    "event-bus",
			Usage:   "Execution event bus (gochannel, kafka, none)",
			Value:   "gochannel",
			Sources: cli.EnvVars("HIREFLOW_EVENT_BUS"),
		},
		&cli.StringFlag{
			Name:    "kafka-brokers",
			Usage:   "Comma separated Kafka brokers for the kafka event bus",
			Sources: cli.EnvVars("KAFKA_BROKERS"),
		},
		&cli.StringFlag{
			Name:    "provider-url",
			Usage:   "Base URL of the SMS, call and email gateway; empty logs messages instead of sending",
			Sources: cli.EnvVars("HIREFLOW_PROVIDER_URL"),
		},
		&cli.StringFlag{
			Name:    "provider-api-key",
			Usage:   "Bearer token for the messaging gateway",
			Sources: cli.EnvVars("HIREFLOW_PROVIDER_API_KEY"),
		},
		&cli.DurationFlag{
			Name:    "provider-timeout",
			Usage:   "Timeout for messaging gateway requests",
			Value:   rest.DefaultTimeout,
			Sources: cli.EnvVars("HIREFLOW_PROVIDER_TIMEOUT"),
		},
		&cli.BoolFlag{
			Name:    "otel",
			Usage:   "Export traces over OTLP/HTTP (configured by OTEL_EXPORTER_OTLP_* variables)",
			Sources: cli.EnvVars("HIREFLOW_OTEL"),
		},
	}
}

func serveFlags() []cli.Flag {
	flags := []cli.Flag{
		&cli.IntFlag{
			Name:    "port",
			Aliases: []string{"p"},
			Usage:   "Port to run the API server on",
			Value:   defaultPort,
			Sources: cli.EnvVars("HIREFLOW_PORT"),
		},
		&cli.StringFlag{
			Name:    "sweep-schedule",
			Usage:   "Cron spec for expiring timed out webhook listeners",
			Value:   scheduler.DefaultSchedule,
			Sources: cli.EnvVars("HIREFLOW_SWEEP_SCHEDULE"),
		},
	}

	flags = append(flags, engineFlags()...)

	return append(flags, logFlags()...)
}
