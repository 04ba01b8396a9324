package config

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	simerrors "github.com/ducminhle1904/dca-hybrid-backtest/internal/errors"
	"github.com/ducminhle1904/dca-hybrid-backtest/pkg/types"
)

// SimValidator implements validation for simulation configurations
type SimValidator struct {
	validate *validator.Validate
}

// NewSimValidator creates a new simulation config validator
func NewSimValidator() *SimValidator {
	return &SimValidator{validate: validator.New()}
}

// Validate checks field ranges and the date window
func (v *SimValidator) Validate(cfg *SimConfig) error {
	if cfg == nil {
		return simerrors.NewConfigurationError("config", "Validate", "configuration is nil")
	}

	if err := v.validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if stderrors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, describeFieldError(fe))
			}
			return simerrors.NewConfigurationError("config", "Validate", strings.Join(msgs, "; "))
		}
		return simerrors.WrapError(err, simerrors.ErrorCategoryConfiguration, "config", "Validate")
	}

	if !cfg.Start.IsZero() && !cfg.End.IsZero() && cfg.End.Before(cfg.Start) {
		return simerrors.NewConfigurationError("config", "Validate",
			fmt.Sprintf("end date %s is before start date %s",
				cfg.End.Format(types.DateLayout), cfg.Start.Format(types.DateLayout)))
	}

	return nil
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Field() {
	case "MonthlyBudget":
		return fmt.Sprintf("monthly budget must be non-negative, got: %v", fe.Value())
	case "BuyDay":
		return fmt.Sprintf("buy day must be between %d and %d, got: %v", MinBuyDay, MaxBuyDay, fe.Value())
	case "RiskFreeRate":
		return fmt.Sprintf("risk-free rate must be greater than -1 (-100%%), got: %v", fe.Value())
	case "DropPct":
		return fmt.Sprintf("drop trigger must be within (0, 1), got: %v", fe.Value())
	case "HybridSplit":
		return fmt.Sprintf("hybrid split must be within [0, 1], got: %v", fe.Value())
	default:
		return fmt.Sprintf("%s failed %s=%s", fe.Field(), fe.Tag(), fe.Param())
	}
}
