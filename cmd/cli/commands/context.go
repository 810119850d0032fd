package commands

import (
	"context"

	"go.uber.org/zap"

	"github.com/oakfieldcare/rota-engine/internal/config"
	"github.com/oakfieldcare/rota-engine/pkg/core/availability"
	"github.com/oakfieldcare/rota-engine/pkg/core/schedule"
	"github.com/oakfieldcare/rota-engine/pkg/core/validation"
	"github.com/oakfieldcare/rota-engine/pkg/db"
)

// AppContext holds the application dependencies shared across all commands
type AppContext struct {
	Cfg        *config.Config
	Store      db.Store
	Validator  *validation.Validator
	Resolver   *availability.Resolver
	Aggregator *schedule.Aggregator
	Logger     *zap.Logger
	Ctx        context.Context
}
