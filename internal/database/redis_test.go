package database_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yamdb/api/internal/database"
	"github.com/yamdb/api/internal/testutil"
)

func TestConnectRedis(t *testing.T) {
	tr := testutil.SetupTestRedis(t)
	defer tr.Teardown(t)

	client, err := database.ConnectRedis(context.Background(), tr.URL)
	require.NoError(t, err)
	defer client.Close()

	require.NoError(t, client.Set(context.Background(), "k", "v", 0).Err())
	got, err := tr.Server.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)
}

func TestConnectRedis_Errors(t *testing.T) {
	_, err := database.ConnectRedis(context.Background(), "not-a-url")
	assert.Error(t, err)

	tr := testutil.SetupTestRedis(t)
	url := tr.URL
	tr.Teardown(t)

	_, err = database.ConnectRedis(context.Background(), url)
	assert.Error(t, err)
}

func TestAutoMigrate(t *testing.T) {
	td := testutil.SetupTestDatabase(t)
	defer td.Teardown(t)

	for _, table := range []string{"users", "categories", "genres", "titles", "title_genres", "reviews", "comments"} {
		assert.True(t, td.DB.Migrator().HasTable(table), table)
	}
	assert.False(t, td.DB.Migrator().HasColumn("titles", "rating"))
}
