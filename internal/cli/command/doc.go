// Package command provides the command definitions for liftlog-server.
//
// It uses urfave/cli/v2. The default action serves the API; migrate
// manages the PostgreSQL schema and version prints build information.
package command
