// Package autoload initializes the global logger from the LOG_* environment
// on import. Import it for side effects from main packages only.
package autoload

import (
	configx "github.com/sahai-labs/sahai-agent/pkg/config"
	logx "github.com/sahai-labs/sahai-agent/pkg/logger"
)

func init() {
	logx.Init(*configx.MustNew[logx.Config]("LOG"))
}
