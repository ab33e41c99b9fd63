package main

import (
	"testing"

	"inbox_service/internal/config"

	"github.com/stretchr/testify/assert"
)

func TestBuildPostgresURL(t *testing.T) {
	got := buildPostgresURL(config.Postgres{
		Host:     "db",
		Port:     5432,
		User:     "inbox",
		Password: "p@ss word",
		DBName:   "inbox",
		SSLMode:  "disable",
	})

	assert.Equal(t, "postgres://inbox:p%40ss%20word@db:5432/inbox?sslmode=disable", got)
}

func TestCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	assert.True(t, names["up"])
	assert.True(t, names["down"])
	assert.True(t, names["version"])
}
