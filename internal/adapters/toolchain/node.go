package toolchain

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/stratum/internal/adapters/logger"
	"go.trai.ch/stratum/internal/adapters/shell"
	"go.trai.ch/stratum/internal/core/ports"
)

// NodeID is the unique identifier for the environment resolver Graft node.
const NodeID graft.ID = "adapter.environment_resolver"

func init() {
	graft.Register(graft.Node[ports.EnvironmentResolver]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{shell.NodeID, logger.NodeID},
		Run: func(ctx context.Context) (ports.EnvironmentResolver, error) {
			executor, err := graft.Dep[ports.Executor](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewResolver(executor, log), nil
		},
	})
}
