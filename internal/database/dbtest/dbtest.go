// Package dbtest поднимает изолированную SQLite-базу в памяти для тестов.
package dbtest

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/GoArmGo/PhotoShare/internal/database/client"
	"github.com/GoArmGo/PhotoShare/internal/logger"
)

// NewClient возвращает клиент с пустой схемой, уникальной для теста
func NewClient(t testing.TB) *client.Client {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_", "#", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	c, err := client.NewSQLiteClient(dsn, logger.Discard())
	require.NoError(t, err)

	t.Cleanup(func() { _ = c.Close() })
	return c
}
