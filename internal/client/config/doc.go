// Package config loads runtime configuration for the NoteKeeper terminal
// client.
//
// Values come from built-in defaults, then an optional JSON file named by
// -c or -config, then short flags. Later sources win.
//
// Flags
//
//	-a string   address:port of the backend gRPC endpoint
//	-t int      per-request timeout (seconds)
//	-i int      online status check interval (seconds)
//	-l string   log level (debug, info, warn, error)
//	-s string   session database file; "-s=" keeps the session in memory
//
// # JSON file
//
// Keys mirror the flags. Durations accept "3s" style strings or integer
// nanoseconds:
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "request_timeout": "5s",
//	  "online_check_interval": "3s",
//	  "log_level": "warn",
//	  "session_file": "/home/ann/.local/state/notekeeper/session.db"
//	}
package config
