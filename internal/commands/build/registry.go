package buildcmd

import (
	"errors"

	command "github.com/goliatone/go-command"
	"github.com/goliatone/go-posts/internal/commands"
	"github.com/goliatone/go-posts/pkg/interfaces"
)

// CommandRegistry is the minimal registration contract expected when wiring command handlers.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

var _ command.Commander[BuildCommand] = (*BuildHandler)(nil)

// RegisterBuildCommand builds the build handler and registers it with reg when one is supplied.
func RegisterBuildCommand(reg CommandRegistry, loader interfaces.PostLoader, provider interfaces.LoggerProvider, opts ...commands.HandlerOption[BuildCommand]) (*BuildHandler, error) {
	if loader == nil {
		return nil, errors.New("build command registration: loader is nil")
	}

	handler := NewBuildHandler(loader, commands.CommandLogger(provider, "build"), opts...)
	if reg != nil {
		if err := reg.RegisterCommand(handler); err != nil {
			return nil, err
		}
	}
	return handler, nil
}
