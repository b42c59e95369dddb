package services

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"games_hub/internal/models"
	"games_hub/internal/storage"

	"github.com/DATA-DOG/go-sqlmock"
	mysqldrv "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var gameColumns = []string{"id", "name", "description", "link", "slug", "order_num", "is_active", "thumbnail", "asset"}

func names(games []models.Game) []string {
	res := make([]string, 0, len(games))
	for _, g := range games {
		res = append(res, g.Name)
	}
	return res
}

func TestSortGames(t *testing.T) {
	games := []models.Game{
		{Name: "Zeta", Order: 3},
		{Name: "Beta", Order: 1},
		{Name: "Alpha", Order: 1},
	}

	SortGames(games)

	assert.Equal(t, []string{"Alpha", "Beta", "Zeta"}, names(games))
}

func TestGameService_ListActive(t *testing.T) {
	ctx := context.Background()
	query := regexp.QuoteMeta("SELECT * FROM `games` WHERE is_active = ? ORDER BY order_num ASC, name ASC")

	t.Run("orders by order then name", func(t *testing.T) {
		store, mock := setupMockDB(t)
		defer store.Close()
		service := NewGameService(store, discardLogger())

		// rows arrive in collation order; the service must still tie-break by name
		mock.ExpectQuery(query).
			WithArgs(true).
			WillReturnRows(sqlmock.NewRows(gameColumns).
				AddRow(2, "Beta", "", "/beta/", "beta", 1, true, "", "").
				AddRow(3, "Alpha", "", "/alpha/", "alpha", 1, true, "", "").
				AddRow(1, "Zeta", "", "/zeta/", "zeta", 3, true, "", ""))

		games, err := service.ListActive(ctx)

		require.NoError(t, err)
		assert.Equal(t, []string{"Alpha", "Beta", "Zeta"}, names(games))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty catalog", func(t *testing.T) {
		store, mock := setupMockDB(t)
		defer store.Close()
		service := NewGameService(store, discardLogger())

		mock.ExpectQuery(query).
			WithArgs(true).
			WillReturnRows(sqlmock.NewRows(gameColumns))

		games, err := service.ListActive(ctx)

		require.NoError(t, err)
		assert.NotNil(t, games)
		assert.Empty(t, games)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error", func(t *testing.T) {
		store, mock := setupMockDB(t)
		defer store.Close()
		service := NewGameService(store, discardLogger())

		mock.ExpectQuery(query).WillReturnError(errors.New("db down"))

		games, err := service.ListActive(ctx)

		assert.Error(t, err)
		assert.Nil(t, games)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGameService_List(t *testing.T) {
	store, mock := setupMockDB(t)
	defer store.Close()
	service := NewGameService(store, discardLogger())

	t.Run("with search", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(
			"SELECT * FROM `games` WHERE name LIKE ? OR description LIKE ? OR slug LIKE ? ORDER BY order_num ASC, name ASC",
		)).
			WithArgs("%chess%", "%chess%", "%chess%").
			WillReturnRows(sqlmock.NewRows(gameColumns).
				AddRow(1, "Simple Chess", "", "/chess/", "simple-chess", 0, false, "", ""))

		games, err := service.List(context.Background(), " chess ")

		require.NoError(t, err)
		require.Len(t, games, 1)
		assert.False(t, games[0].IsActive)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("without search", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `games` ORDER BY order_num ASC, name ASC")).
			WillReturnRows(sqlmock.NewRows(gameColumns))

		games, err := service.List(context.Background(), "")

		require.NoError(t, err)
		assert.Empty(t, games)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGameService_GetByID(t *testing.T) {
	store, mock := setupMockDB(t)
	defer store.Close()
	service := NewGameService(store, discardLogger())
	query := regexp.QuoteMeta("SELECT * FROM `games` WHERE `games`.`id` = ? ORDER BY `games`.`id` LIMIT ?")

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(1, 1).
			WillReturnRows(sqlmock.NewRows(gameColumns).
				AddRow(1, "Simple Chess", "", "/chess/", "simple-chess", 0, true, "", ""))

		game, err := service.GetByID(context.Background(), 1)

		require.NoError(t, err)
		assert.Equal(t, "simple-chess", game.Slug)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(999, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		game, err := service.GetByID(context.Background(), 999)

		assert.ErrorIs(t, err, storage.ErrNotFound)
		assert.Nil(t, game)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestValidateGame(t *testing.T) {
	t.Run("derives slug from name", func(t *testing.T) {
		in, errs := ValidateGame(GameInput{Name: " Simple Chess ", Link: "/simplechess/"})

		assert.Empty(t, errs)
		assert.Equal(t, "Simple Chess", in.Name)
		assert.Equal(t, "simple-chess", in.Slug)
	})

	t.Run("absolute link", func(t *testing.T) {
		_, errs := ValidateGame(GameInput{Name: "FPS", Link: "https://games.example.com/fps"})
		assert.Empty(t, errs)
	})

	t.Run("invalid fields", func(t *testing.T) {
		_, errs := ValidateGame(GameInput{Link: "javascript:alert(1)", Slug: "not a slug"})

		assert.Equal(t, []string{"Name is required."}, errs["name"])
		assert.Equal(t, []string{"Enter a valid URL or a path starting with /."}, errs["link"])
		assert.Equal(t, []string{"Enter a valid slug consisting of letters, numbers, underscores or hyphens."}, errs["slug"])
	})

	t.Run("unsluggable name", func(t *testing.T) {
		_, errs := ValidateGame(GameInput{Name: "???", Link: "/q/"})
		assert.Equal(t, []string{"Slug is required."}, errs["slug"])
	})
}

func TestGameService_Create(t *testing.T) {
	ctx := context.Background()
	insert := regexp.QuoteMeta("INSERT INTO `games`")

	t.Run("success", func(t *testing.T) {
		store, mock := setupMockDB(t)
		defer store.Close()
		service := NewGameService(store, discardLogger())

		mock.ExpectBegin()
		mock.ExpectExec(insert).WillReturnResult(sqlmock.NewResult(5, 1))
		mock.ExpectCommit()

		game, err := service.Create(ctx, GameInput{Name: "Simple Chess", Link: "/chess/", IsActive: true}, "thumb.png", "")

		require.NoError(t, err)
		assert.Equal(t, int64(5), game.ID)
		assert.Equal(t, "simple-chess", game.Slug)
		assert.Equal(t, "thumb.png", game.Thumbnail)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate", func(t *testing.T) {
		store, mock := setupMockDB(t)
		defer store.Close()
		service := NewGameService(store, discardLogger())

		mock.ExpectBegin()
		mock.ExpectExec(insert).WillReturnError(&mysqldrv.MySQLError{Number: 1062, Message: "Duplicate entry"})
		mock.ExpectRollback()

		game, err := service.Create(ctx, GameInput{Name: "Simple Chess", Link: "/chess/"}, "", "")

		assert.ErrorIs(t, err, storage.ErrExists)
		assert.Nil(t, game)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("invalid input", func(t *testing.T) {
		store, mock := setupMockDB(t)
		defer store.Close()
		service := NewGameService(store, discardLogger())

		game, err := service.Create(ctx, GameInput{Link: "/chess/"}, "", "")

		var verrs ValidationErrors
		require.ErrorAs(t, err, &verrs)
		assert.True(t, verrs.Has("name"))
		assert.Nil(t, game)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGameService_Update(t *testing.T) {
	ctx := context.Background()
	selectQuery := regexp.QuoteMeta("SELECT * FROM `games` WHERE `games`.`id` = ? ORDER BY `games`.`id` LIMIT ?")

	t.Run("success keeps stored media when none given", func(t *testing.T) {
		store, mock := setupMockDB(t)
		defer store.Close()
		service := NewGameService(store, discardLogger())

		mock.ExpectBegin()
		mock.ExpectQuery(selectQuery).
			WithArgs(1, 1).
			WillReturnRows(sqlmock.NewRows(gameColumns).
				AddRow(1, "Old", "", "/old/", "old", 0, true, "thumb.png", ""))
		mock.ExpectExec(regexp.QuoteMeta("UPDATE `games` SET")).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		game, err := service.Update(ctx, 1, GameInput{Name: "New", Link: "/new/", Order: 2}, "", "")

		require.NoError(t, err)
		assert.Equal(t, "New", game.Name)
		assert.Equal(t, "new", game.Slug)
		assert.Equal(t, uint(2), game.Order)
		assert.False(t, game.IsActive)
		assert.Equal(t, "thumb.png", game.Thumbnail)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		store, mock := setupMockDB(t)
		defer store.Close()
		service := NewGameService(store, discardLogger())

		mock.ExpectBegin()
		mock.ExpectQuery(selectQuery).
			WithArgs(9, 1).
			WillReturnError(gorm.ErrRecordNotFound)
		mock.ExpectRollback()

		game, err := service.Update(ctx, 9, GameInput{Name: "New", Link: "/new/"}, "", "")

		assert.ErrorIs(t, err, storage.ErrNotFound)
		assert.Nil(t, game)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGameService_UpdateOrder(t *testing.T) {
	store, mock := setupMockDB(t)
	defer store.Close()
	service := NewGameService(store, discardLogger())
	update := regexp.QuoteMeta("UPDATE `games` SET `order_num`=?")

	t.Run("success", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(update).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		assert.NoError(t, service.UpdateOrder(context.Background(), 1, 4))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(update).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		assert.ErrorIs(t, service.UpdateOrder(context.Background(), 2, 4), storage.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGameService_Delete(t *testing.T) {
	store, mock := setupMockDB(t)
	defer store.Close()
	service := NewGameService(store, discardLogger())
	del := regexp.QuoteMeta("DELETE FROM `games` WHERE `games`.`id` = ?")

	t.Run("success", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(del).WithArgs(1).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		assert.NoError(t, service.Delete(context.Background(), 1))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(del).WithArgs(2).WillReturnError(errors.New("delete error"))
		mock.ExpectRollback()

		assert.ErrorIs(t, service.Delete(context.Background(), 2), storage.ErrDeleteFailed)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
