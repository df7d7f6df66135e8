package parser

import (
	"fmt"
	"os"
	"strings"

	"github.com/carelink/openapi-bridge/internal/logger"
	"github.com/carelink/openapi-bridge/internal/models"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Adjuster filters the generated tool set and overrides descriptions
// based on a YAML adjustments file.
type Adjuster struct {
	adjustments *models.ToolAdjustments
}

// NewAdjuster creates an Adjuster with no adjustments loaded. Without a
// loaded file every route passes through unchanged.
func NewAdjuster() *Adjuster {
	return &Adjuster{
		adjustments: &models.ToolAdjustments{},
	}
}

// Load reads adjustments from a YAML file. An empty path or a missing
// file leaves the adjuster empty.
func (a *Adjuster) Load(filePath string) error {
	if filePath == "" {
		return nil
	}

	logger.Info("loading adjustments file", zap.String("file", filePath))
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		logger.Warn("adjustments file not found", zap.String("file", filePath))
		return nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}

	var adjustments models.ToolAdjustments
	if err := yaml.Unmarshal(data, &adjustments); err != nil {
		return fmt.Errorf("failed to parse adjustments file: %w", err)
	}

	a.adjustments = &adjustments
	return nil
}

// IncludesRoute reports whether a route/method pair survives the route
// selection. With no selections configured everything is included.
func (a *Adjuster) IncludesRoute(route, method string) bool {
	if a.adjustments == nil || len(a.adjustments.Routes) == 0 {
		return true
	}

	for _, selection := range a.adjustments.Routes {
		if selection.Path != route {
			continue
		}
		for _, m := range selection.Methods {
			if strings.EqualFold(m, method) {
				return true
			}
		}
		return false
	}
	return false
}

// GetDescription returns the override description for a route/method if
// one is configured, otherwise the original.
func (a *Adjuster) GetDescription(route, method, originalDesc string) string {
	if a.adjustments == nil {
		return originalDesc
	}

	for _, desc := range a.adjustments.Descriptions {
		if desc.Path != route {
			continue
		}
		for _, update := range desc.Updates {
			if strings.EqualFold(update.Method, method) && update.NewDescription != "" {
				return update.NewDescription
			}
		}
		break
	}
	return originalDesc
}
