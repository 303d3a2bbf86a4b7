//go:build integration

package records_test

import (
	"context"
	"log"
	"os"
	"testing"

	"github.com/eskrenkovic/gift-exchange-go/internal/modules/records"
	"github.com/eskrenkovic/gift-exchange-go/internal/test"

	"github.com/stretchr/testify/require"
)

var fixture *test.LocalTestFixture

func TestMain(m *testing.M) {
	ctx := context.Background()

	fixture = test.NewLocalTestFixture()
	if err := fixture.Start(ctx); err != nil {
		log.Fatal(err)
	}

	code := m.Run()

	if err := fixture.Stop(ctx); err != nil {
		log.Fatal(err)
	}

	os.Exit(code)
}

func Test_Browser_Lists_Gets_And_Deletes_Rows(t *testing.T) {
	// Arrange
	ctx := context.Background()
	require.NoError(t, fixture.Truncate(ctx))
	for _, id := range []int64{1, 2, 3} {
		_, err := fixture.DB.ExecContext(ctx, `INSERT INTO app_user (id, username) VALUES ($1, $2);`, id, "u")
		require.NoError(t, err)
	}
	browser := records.NewBrowser(fixture.DB)

	// Act
	page, err := browser.List(ctx, "app_user", 2, 2)
	require.NoError(t, err)
	record, getErr := browser.Get(ctx, "app_user", 1)
	deleteErr := browser.Delete(ctx, "app_user", 2)
	_, missingErr := browser.Get(ctx, "app_user", 2)

	// Assert
	require.Equal(t, int64(3), page.Total)
	require.Len(t, page.Records, 1)
	require.Equal(t, int64(3), page.Records[0]["id"])
	require.NoError(t, getErr)
	require.Equal(t, "u", record["username"])
	require.NoError(t, deleteErr)
	require.ErrorIs(t, missingErr, records.ErrRecordNotFound)
}

func Test_Browser_Updates_Editable_Column(t *testing.T) {
	// Arrange
	ctx := context.Background()
	require.NoError(t, fixture.Truncate(ctx))
	_, err := fixture.DB.ExecContext(ctx, `INSERT INTO app_user (id, username) VALUES (1, 'old');`)
	require.NoError(t, err)
	browser := records.NewBrowser(fixture.DB)

	// Act
	record, err := browser.Update(ctx, "app_user", 1, "username", "new")
	_, roleErr := browser.Update(ctx, "app_user", 1, "role", "emperor")
	_, missingErr := browser.Update(ctx, "app_user", 404, "username", "x")

	// Assert
	require.NoError(t, err)
	require.Equal(t, "new", record["username"])
	require.ErrorIs(t, roleErr, records.ErrInvalidValue)
	require.ErrorIs(t, missingErr, records.ErrRecordNotFound)
}

func Test_Browser_Delete_Of_Referenced_User_Is_Refused(t *testing.T) {
	// Arrange
	ctx := context.Background()
	require.NoError(t, fixture.Truncate(ctx))
	_, err := fixture.DB.ExecContext(ctx, `INSERT INTO app_user (id, username) VALUES (1, 'org');`)
	require.NoError(t, err)
	_, err = fixture.DB.ExecContext(
		ctx,
		`INSERT INTO game (name, budget, currency, organizer_id, invite_code) VALUES ('office', 10, 'EUR', 1, 'AbCd1234');`,
	)
	require.NoError(t, err)
	browser := records.NewBrowser(fixture.DB)

	// Act
	err = browser.Delete(ctx, "app_user", 1)

	// Assert
	require.ErrorIs(t, err, records.ErrRecordReferenced)
}
