// Command chequer is the operator CLI for the chequer event bus.
//
//	chequer demo                 # print breadth-first and depth-first delivery order
//	chequer demo --mode dfs      # one mode only
//	chequer soak                 # concurrent send/subscribe/close stress run
//	chequer serve --addr :9090   # /metrics, /healthz and /debug/events
//	chequer config:show          # effective settings
//
// Settings come from config/app.json, .env and the environment; see
// package config.
package main
