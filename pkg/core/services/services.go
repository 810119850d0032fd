// Package services orchestrates the write paths over the rule validator.
// Three named policies apply deliberately different strictness:
//
//   - permissive-create: a single insert proceeds despite rule errors, which
//     are returned as advisory warnings; only a duplicate slot or a missing
//     carer/package blocks it
//   - strict-update: an update is rejected on any rule error
//   - strict-batch: a batch import commits all candidates or none
package services

import (
	"context"

	"github.com/go-playground/validator/v10"

	"github.com/oakfieldcare/rota-engine/pkg/core/model"
	"github.com/oakfieldcare/rota-engine/pkg/core/validation"
)

// validate checks candidate input shape (required fields, date and shift
// type formats) before any rule runs
var validate *validator.Validate

func init() {
	validate = validator.New()
}

// ShiftValidator is the rule-validation dependency shared by the write
// paths; *validation.Validator implements it
type ShiftValidator interface {
	Validate(ctx context.Context, candidate *model.ShiftEntry, opts validation.Options) (*validation.Result, error)
}
