package spatial

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeConn struct {
	execSQL  string
	execArgs []any
	execErr  error
	closed   bool
}

func (f *fakeConn) Exec(ctx context.Context, sql string, args ...any) error {
	f.execSQL = sql
	f.execArgs = args
	return f.execErr
}

func (f *fakeConn) Close(ctx context.Context) error {
	f.closed = true
	return nil
}

func TestDropGeometryTable(t *testing.T) {
	fc := &fakeConn{}
	b := NewBackend(Config{Name: "geodata"}, zap.NewNop())
	b.connect = func(ctx context.Context, dsn string) (conn, error) {
		assert.Contains(t, dsn, "dbname=geodata")
		return fc, nil
	}

	err := b.DropGeometryTable(context.Background(), "rivers_2020")
	assert.NoError(t, err)
	assert.Contains(t, fc.execSQL, "DropGeometryTable")
	assert.Equal(t, []any{"rivers_2020"}, fc.execArgs)
	assert.True(t, fc.closed)
}

func TestDropGeometryTableErrors(t *testing.T) {
	t.Run("connect failure", func(t *testing.T) {
		b := NewBackend(Config{Name: "geodata"}, zap.NewNop())
		b.connect = func(ctx context.Context, dsn string) (conn, error) {
			return nil, errors.New("connection refused")
		}
		assert.Error(t, b.DropGeometryTable(context.Background(), "rivers_2020"))
	})

	t.Run("exec failure", func(t *testing.T) {
		fc := &fakeConn{execErr: errors.New("no such function")}
		b := NewBackend(Config{Name: "geodata"}, zap.NewNop())
		b.connect = func(ctx context.Context, dsn string) (conn, error) {
			return fc, nil
		}
		assert.Error(t, b.DropGeometryTable(context.Background(), "rivers_2020"))
		assert.True(t, fc.closed)
	})
}

func TestConfigEnabled(t *testing.T) {
	assert.False(t, Config{}.Enabled())
	assert.True(t, Config{Name: "geodata"}.Enabled())
}
