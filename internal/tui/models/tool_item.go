package models

import (
	"fmt"

	"github.com/carelink/openapi-bridge/internal/parser"
)

// ToolItem wraps a RouteTool for display in the list
// Implements list.Item
type ToolItem struct {
	Tool *parser.RouteTool
}

func (i ToolItem) Title() string {
	return i.Tool.Tool.Name
}

func (i ToolItem) Description() string {
	return fmt.Sprintf("%s %s  %s", i.Tool.RouteConfig.Method, i.Tool.RouteConfig.Path, i.Tool.RouteConfig.Description)
}

func (i ToolItem) FilterValue() string {
	return i.Tool.Tool.Name + " " + i.Tool.RouteConfig.Path + " " + i.Tool.RouteConfig.Description
}
