// Package config loads the YAML configuration of the signaling CLI.
//
// The file names the signaling endpoint, the room to join and the tuning of the socket:
//   - heartbeat_interval_ms, backoff_base_ms, backoff_cap_ms in milliseconds
//   - connect_timeout and write_timeout as Go duration strings
//   - queue.max_size and queue.policy for the outbound queue
//   - log and metrics settings
//
// ${VAR} references are expanded from the environment before parsing.
package config
