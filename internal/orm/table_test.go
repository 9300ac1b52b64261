package orm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type MockExecutor struct {
	mock.Mock
}

func (m *MockExecutor) Select(ctx context.Context, query string, args []any, size int) ([]map[string]any, error) {
	ret := m.Called(ctx, query, args, size)
	if ret.Get(0) == nil {
		return nil, ret.Error(1)
	}
	return ret.Get(0).([]map[string]any), ret.Error(1)
}

func (m *MockExecutor) Execute(ctx context.Context, query string, args []any) (int64, error) {
	ret := m.Called(ctx, query, args)
	return ret.Get(0).(int64), ret.Error(1)
}

type note struct {
	e *Entity
}

func (n *note) Entity() *Entity { return n.e }

func noteSchema(counter *int) *Schema {
	return MustSchema("notes",
		StringField("id", "varchar(50)").Key().WithDefault(Computed(func() any {
			*counter++
			return "generated-id"
		})),
		StringField("title", "varchar(50)"),
		BooleanField("pinned"),
		FloatField("created_at").WithDefault(Static(1700000000.5)),
	)
}

func newNoteTable(t *testing.T, db Executor) (*Table[*note], *observer.ObservedLogs, *int) {
	t.Helper()
	counter := 0
	core, logs := observer.New(zapcore.WarnLevel)
	table := NewTable(noteSchema(&counter), db, func(e *Entity) *note { return &note{e: e} }, zap.New(core))
	return table, logs, &counter
}

func TestTable_FindAll(t *testing.T) {
	ctx := context.Background()
	base := "select `id`, `title`, `pinned`, `created_at` from `notes`"

	tests := []struct {
		name     string
		opts     FindOptions
		wantSQL  string
		wantArgs []any
	}{
		{
			name:     "no clauses",
			opts:     FindOptions{},
			wantSQL:  base,
			wantArgs: []any{},
		},
		{
			name:     "where and order",
			opts:     FindOptions{Where: "`title`=?", Args: []any{"a"}, OrderBy: "created_at desc"},
			wantSQL:  base + " where `title`=? order by created_at desc",
			wantArgs: []any{"a"},
		},
		{
			name:     "row cap",
			opts:     FindOptions{Limit: 5},
			wantSQL:  base + " limit ?",
			wantArgs: []any{5},
		},
		{
			name:     "offset and count array",
			opts:     FindOptions{OrderBy: "created_at desc", Limit: [2]int{6, 3}},
			wantSQL:  base + " order by created_at desc limit ? offset ?",
			wantArgs: []any{3, 6},
		},
		{
			name:     "offset and count slice",
			opts:     FindOptions{Limit: []int{12, 6}},
			wantSQL:  base + " limit ? offset ?",
			wantArgs: []any{6, 12},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := new(MockExecutor)
			table, _, _ := newNoteTable(t, db)

			db.On("Select", ctx, tt.wantSQL, tt.wantArgs, 0).Return([]map[string]any{
				{"id": "n1", "title": "first"},
				{"id": "n2", "title": "second"},
			}, nil)

			notes, err := table.FindAll(ctx, tt.opts)
			require.NoError(t, err)
			require.Len(t, notes, 2)
			assert.Equal(t, "n1", notes[0].Entity().String("id"))
			assert.Equal(t, "second", notes[1].Entity().String("title"))
			db.AssertExpectations(t)
		})
	}
}

func TestTable_FindAll_InvalidLimit(t *testing.T) {
	for _, limit := range []any{"10", []int{1, 2, 3}, 2.5, [3]int{}} {
		db := new(MockExecutor)
		table, _, _ := newNoteTable(t, db)

		_, err := table.FindAll(context.Background(), FindOptions{Limit: limit})
		assert.ErrorIs(t, err, ErrInvalidArgument)
		db.AssertNotCalled(t, "Select", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	}
}

func TestTable_FindAll_DoesNotMutateArgs(t *testing.T) {
	ctx := context.Background()
	db := new(MockExecutor)
	table, _, _ := newNoteTable(t, db)

	args := make([]any, 1, 4)
	args[0] = "a"
	db.On("Select", ctx, mock.Anything, []any{"a", 1}, 0).Return([]map[string]any{}, nil)

	_, err := table.FindAll(ctx, FindOptions{Where: "`title`=?", Args: args, Limit: 1})
	require.NoError(t, err)
	assert.Len(t, args, 1)
}

func TestTable_FindNumber(t *testing.T) {
	ctx := context.Background()

	t.Run("returns scalar", func(t *testing.T) {
		db := new(MockExecutor)
		table, _, _ := newNoteTable(t, db)
		db.On("Select", ctx, "select count(`id`) as count from `notes` where `pinned`=?", []any{true}, 1).
			Return([]map[string]any{{"count": int64(13)}}, nil)

		n, err := table.FindNumber(ctx, "count(`id`)", "`pinned`=?", true)
		require.NoError(t, err)
		assert.Equal(t, int64(13), n)
	})

	t.Run("no row", func(t *testing.T) {
		db := new(MockExecutor)
		table, _, _ := newNoteTable(t, db)
		db.On("Select", ctx, "select max(`created_at`) as count from `notes`", []any(nil), 1).
			Return([]map[string]any{}, nil)

		n, err := table.FindNumber(ctx, "max(`created_at`)", "")
		require.NoError(t, err)
		assert.Nil(t, n)
	})
}

func TestTable_Find(t *testing.T) {
	ctx := context.Background()
	query := "select `id`, `title`, `pinned`, `created_at` from `notes` where `id`=?"

	t.Run("found", func(t *testing.T) {
		db := new(MockExecutor)
		table, _, _ := newNoteTable(t, db)
		db.On("Select", ctx, query, []any{"n1"}, 1).Return([]map[string]any{{"id": "n1", "title": "t"}}, nil)

		n, found, err := table.Find(ctx, "n1")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "t", n.Entity().String("title"))
	})

	t.Run("missing", func(t *testing.T) {
		db := new(MockExecutor)
		table, _, _ := newNoteTable(t, db)
		db.On("Select", ctx, query, []any{"nope"}, 1).Return([]map[string]any{}, nil)

		n, found, err := table.Find(ctx, "nope")
		require.NoError(t, err)
		assert.False(t, found)
		assert.Nil(t, n)
	})

	t.Run("driver error", func(t *testing.T) {
		db := new(MockExecutor)
		table, _, _ := newNoteTable(t, db)
		db.On("Select", ctx, query, []any{"n1"}, 1).Return(nil, errors.New("connection refused"))

		_, _, err := table.Find(ctx, "n1")
		assert.ErrorContains(t, err, "connection refused")
	})
}

func TestTable_SaveFillsDefaults(t *testing.T) {
	ctx := context.Background()
	db := new(MockExecutor)
	table, logs, counter := newNoteTable(t, db)

	n := table.New(map[string]any{"title": "hello"})
	db.On("Execute", ctx,
		"insert into `notes` (`title`, `pinned`, `created_at`, `id`) values (?, ?, ?, ?)",
		[]any{"hello", false, 1700000000.5, "generated-id"},
	).Return(int64(1), nil)

	require.NoError(t, table.Save(ctx, n))
	db.AssertExpectations(t)

	assert.Equal(t, "generated-id", n.Entity().Value("id"))
	assert.Equal(t, 1, *counter)
	assert.Equal(t, 0, logs.Len())

	// the default is cached on the entity
	assert.Equal(t, "generated-id", n.Entity().ValueOrDefault("id"))
	assert.Equal(t, 1, *counter)
}

func TestTable_UpdateSkipsDefaults(t *testing.T) {
	ctx := context.Background()
	db := new(MockExecutor)
	table, _, counter := newNoteTable(t, db)

	n := table.New(map[string]any{"id": "n1", "title": "renamed"})
	db.On("Execute", ctx,
		"update `notes` set `title`=?, `pinned`=?, `created_at`=? where `id`=?",
		[]any{"renamed", nil, nil, "n1"},
	).Return(int64(1), nil)

	require.NoError(t, table.Update(ctx, n))
	db.AssertExpectations(t)
	assert.Equal(t, 0, *counter)
	_, pinnedSet := n.Entity().Get("pinned")
	assert.False(t, pinnedSet)
}

func TestTable_RowCountMismatchIsSoft(t *testing.T) {
	ctx := context.Background()
	db := new(MockExecutor)
	table, logs, _ := newNoteTable(t, db)

	n := table.New(map[string]any{"id": "gone"})
	db.On("Execute", ctx, "delete from `notes` where `id`=?", []any{"gone"}).Return(int64(0), nil)
	db.On("Execute", ctx, mock.MatchedBy(func(q string) bool { return q[:6] == "update" }), mock.Anything).Return(int64(0), nil)

	assert.NoError(t, table.Remove(ctx, n))
	assert.NoError(t, table.Update(ctx, n))

	require.Equal(t, 2, logs.Len())
	entries := logs.All()
	assert.Equal(t, "failed to remove by primary key", entries[0].Message)
	assert.Equal(t, "failed to update by primary key", entries[1].Message)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
}

func TestTable_ExecuteErrorIsReturned(t *testing.T) {
	ctx := context.Background()
	db := new(MockExecutor)
	table, _, _ := newNoteTable(t, db)

	db.On("Execute", ctx, mock.Anything, mock.Anything).Return(int64(0), errors.New("duplicate entry"))

	err := table.Save(ctx, table.New(nil))
	assert.ErrorContains(t, err, "insert notes: duplicate entry")
}
