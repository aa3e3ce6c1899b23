package ponyx

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/avpony/ponyx/internal"
	"github.com/itsatony/go-cuserr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const inboxSource = `import { Card } from "./card";
let items = [];
---
<Card title="Inbox">{#for item in items by item.id}<p>{item.title}</p>{:else}<p>none</p>{/for}</Card>`

func TestNew(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		engine, err := New()
		require.NoError(t, err)
		assert.Equal(t, ExtIDScript, engine.Ext().ID())
		assert.Nil(t, engine.Storage())
		assert.Nil(t, engine.Cache())
	})

	t.Run("nil ext is ignored", func(t *testing.T) {
		engine := MustNew(WithExt(nil))
		assert.Equal(t, ExtIDScript, engine.Ext().ID())
	})

	t.Run("custom ext", func(t *testing.T) {
		engine := MustNew(WithExt(NopExt{}), WithLogger(zap.NewNop()))
		assert.Equal(t, ExtIDNop, engine.Ext().ID())
	})
}

func TestEngine_Parse(t *testing.T) {
	ctx := context.Background()
	engine := MustNew()

	t.Run("complete file", func(t *testing.T) {
		result, err := engine.Parse(ctx, "inbox.pony", inboxSource)
		require.NoError(t, err)
		require.Empty(t, result.Diagnostics, "diagnostics: %v", result.Diagnostics)
		assert.False(t, result.HasErrors())

		require.NotNil(t, result.File)
		require.True(t, result.File.Module.IsPresent())
		mod, ok := result.File.Module.Value().(*ScriptModule)
		require.True(t, ok, "got %T", result.File.Module.Value())
		require.Len(t, mod.Imports(), 1)
		assert.Equal(t, "./card", mod.Imports()[0].Source)
		require.Len(t, mod.Declarations(), 1)

		card := singleNode[*Tag](t, result.Root)
		assert.Equal(t, "Card", card.Name.String())
		require.Len(t, card.Children, 1)

		loop, ok := card.Children[0].(*ForBlock)
		require.True(t, ok, "got %T", card.Children[0])
		assert.Equal(t, "item", loop.Binding.Value().Value)
		require.NotNil(t, loop.Key)
		assert.True(t, loop.Key.IsPresent())
		assert.True(t, loop.HasEmpty)
		assert.Len(t, loop.Empty, 1)

		assert.Equal(t, "inbox.pony", string(result.Source.ID))
		assert.Equal(t, len(inboxSource), result.File.Span().End)
	})

	t.Run("empty module", func(t *testing.T) {
		result, err := engine.Parse(ctx, testSourceID, "---\n<p/>")
		require.NoError(t, err)
		assert.Empty(t, result.Diagnostics)
		require.True(t, result.File.Module.IsPresent())
		assert.Len(t, result.Root.Children, 1)
	})

	t.Run("missing fence still parses markup", func(t *testing.T) {
		result, err := engine.Parse(ctx, testSourceID, "<p/>")
		require.NoError(t, err)
		assert.Equal(t, []string{"S000"}, codeStrings(result.Diagnostics))
		assert.False(t, result.File.Module.IsPresent())

		tag := singleNode[*Tag](t, result.Root)
		assert.True(t, tag.SelfClosing)
		assert.Contains(t, result.Diagnostics[0].Notes(), internal.HintMissingFence)
		assert.Equal(t, 0, result.Diagnostics[0].Span().Start)
	})

	t.Run("missing fence after a module", func(t *testing.T) {
		result, err := engine.Parse(ctx, testSourceID, "let x = 1;\n<p>no fence</p>")
		require.NoError(t, err)
		assert.Equal(t, []string{"S000"}, codeStrings(result.Diagnostics))
		assert.Equal(t, 11, result.Diagnostics[0].Span().Start)
		singleNode[*Tag](t, result.Root)
	})

	t.Run("broken module before a fence keeps its error", func(t *testing.T) {
		result, err := engine.Parse(ctx, testSourceID, "let = 1;\n---\n<p/>")
		require.NoError(t, err)
		codes := codeStrings(result.Diagnostics)
		require.NotEmpty(t, codes)
		assert.Equal(t, "E000", codes[0])
	})

	t.Run("cancelled context", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := engine.Parse(cancelled, testSourceID, "---")
		require.Error(t, err)
		assert.True(t, errors.Is(err, context.Canceled))

		var customErr *cuserr.CustomError
		require.True(t, errors.As(err, &customErr))
		source, ok := customErr.GetMetadata(MetaKeySource)
		assert.True(t, ok)
		assert.Equal(t, string(testSourceID), source)
	})
}

func TestEngine_ParseNodes(t *testing.T) {
	engine := MustNew()
	result, err := engine.ParseNodes(context.Background(), testSourceID, "Hello {name}!")
	require.NoError(t, err)
	assert.Empty(t, result.Diagnostics)
	assert.Nil(t, result.File)
	require.Len(t, result.Root.Children, 3)

	m, ok := result.Root.Children[1].(*Mustache)
	require.True(t, ok)
	ident, ok := m.Expr.Value.Value().(*ScriptIdentifier)
	require.True(t, ok, "got %T", m.Expr.Value.Value())
	assert.Equal(t, "name", ident.Name)
}

func TestEngine_ParseExpr(t *testing.T) {
	engine := MustNew(WithIgnoredCodes(CodeMultipleNumericDividers))

	result, err := engine.ParseExpr(context.Background(), testSourceID, "f [1, 2]")
	require.NoError(t, err)
	assert.Empty(t, result.Diagnostics)
	assert.Equal(t, "(f [1, 2])", result.Expr.String())

	result, err = engine.ParseExpr(context.Background(), testSourceID, "1__0")
	require.NoError(t, err)
	assert.Empty(t, result.Diagnostics)
}

func TestEngine_ParseStrict(t *testing.T) {
	ctx := context.Background()

	t.Run("clean source", func(t *testing.T) {
		result, err := MustNew().ParseStrict(ctx, testSourceID, "---\n<p>hi</p>")
		require.NoError(t, err)
		assert.NotNil(t, result)
	})

	t.Run("error carries first position", func(t *testing.T) {
		result, err := MustNew().ParseStrict(ctx, testSourceID, "---\n<Box>x</Bix>")
		require.Error(t, err)
		require.NotNil(t, result)

		var customErr *cuserr.CustomError
		require.True(t, errors.As(err, &customErr))

		code, ok := customErr.GetMetadata(MetaKeyCode)
		assert.True(t, ok)
		assert.Equal(t, "X101", code)

		line, ok := customErr.GetMetadata(MetaKeyLine)
		assert.True(t, ok)
		assert.Equal(t, "2", line)

		column, ok := customErr.GetMetadata(MetaKeyColumn)
		assert.True(t, ok)
		assert.Equal(t, "1", column)

		offset, ok := customErr.GetMetadata(MetaKeyOffset)
		assert.True(t, ok)
		assert.Equal(t, "4", offset)
	})

	t.Run("warnings pass by default", func(t *testing.T) {
		result, err := MustNew().ParseStrict(ctx, testSourceID, "---\n&bogus;")
		require.NoError(t, err)
		assert.Len(t, result.Diagnostics.Warnings(), 1)
	})

	t.Run("warnings fail in strict mode", func(t *testing.T) {
		_, err := MustNew(WithStrict(true)).ParseStrict(ctx, testSourceID, "---\n&bogus;")
		require.Error(t, err)

		var customErr *cuserr.CustomError
		require.True(t, errors.As(err, &customErr))
		code, ok := customErr.GetMetadata(MetaKeyCode)
		assert.True(t, ok)
		assert.Equal(t, "X000", code)
	})
}

func TestEngine_MustParse(t *testing.T) {
	engine := MustNew()
	assert.NotPanics(t, func() {
		engine.MustParse(testSourceID, "---\n<p/>")
	})
	assert.Panics(t, func() {
		engine.MustParse(testSourceID, "---\n<p>")
	})
}

func TestEngine_DiagnosticPolicy(t *testing.T) {
	ctx := context.Background()
	const text = "---\n&bogus;"

	t.Run("ignored codes are dropped", func(t *testing.T) {
		engine := MustNew(WithIgnoredCodes(CodeInvalidEntityName))
		result, err := engine.Parse(ctx, testSourceID, text)
		require.NoError(t, err)
		assert.Empty(t, result.Diagnostics)
	})

	t.Run("severity override keeps the variant", func(t *testing.T) {
		engine := MustNew(WithSeverityOverrides(map[Code]Severity{
			CodeInvalidEntityName: SeverityError,
		}))
		result, err := engine.Parse(ctx, testSourceID, text)
		require.NoError(t, err)
		require.Len(t, result.Diagnostics, 1)
		assert.True(t, result.HasErrors())

		d := result.Diagnostics[0]
		assert.Equal(t, SeverityError, d.Severity())
		assert.Equal(t, CodeInvalidEntityName, d.Code())

		var entity *InvalidEntityName
		require.ErrorAs(t, d, &entity)
		assert.Equal(t, "bogus", entity.Name)
		assert.Same(t, entity, Underlying(d))
	})

	t.Run("override to the same severity is a no-op", func(t *testing.T) {
		engine := MustNew(WithSeverityOverrides(map[Code]Severity{
			CodeInvalidEntityName: SeverityWarning,
		}))
		result, err := engine.Parse(ctx, testSourceID, text)
		require.NoError(t, err)
		require.Len(t, result.Diagnostics, 1)
		_, wrapped := result.Diagnostics[0].(*Reclassified)
		assert.False(t, wrapped)
	})
}

func TestEngine_MaxDepth(t *testing.T) {
	engine := MustNew(WithMaxDepth(2))
	result, err := engine.ParseNodes(context.Background(), testSourceID, "<a><b><c/></b></a>")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Diagnostics.WithCode(CodeNestingTooDeep))

	unlimited := MustNew(WithMaxDepth(0))
	result, err = unlimited.ParseNodes(context.Background(), testSourceID, "<a><b><c/></b></a>")
	require.NoError(t, err)
	assert.Empty(t, result.Diagnostics)
}

func TestEngine_Cache(t *testing.T) {
	ctx := context.Background()
	cache := NewParseCache(ParseCacheConfig{}, nil)
	engine := MustNew(WithCache(cache))
	require.Same(t, cache, engine.Cache())

	first, err := engine.Parse(ctx, testSourceID, "---\n&bogus;")
	require.NoError(t, err)
	second, err := engine.Parse(ctx, testSourceID, "---\n&bogus;")
	require.NoError(t, err)

	assert.Same(t, first.Root, second.Root)
	assert.Equal(t, first.Diagnostics, second.Diagnostics)

	stats := cache.Stats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, 1, stats.EntryCount)

	_, err = engine.ParseNodes(ctx, testSourceID, "---\n&bogus;")
	require.NoError(t, err)
	assert.Equal(t, 2, cache.Len(), "file and node parses use separate keys")

	t.Run("policy is applied per engine", func(t *testing.T) {
		ignoring := MustNew(WithCache(cache), WithIgnoredCodes(CodeInvalidEntityName))
		result, err := ignoring.Parse(ctx, testSourceID, "---\n&bogus;")
		require.NoError(t, err)
		assert.Empty(t, result.Diagnostics)

		again, err := engine.Parse(ctx, testSourceID, "---\n&bogus;")
		require.NoError(t, err)
		assert.Len(t, again.Diagnostics, 1)
	})
}

func TestEngine_SharedCacheScope(t *testing.T) {
	ctx := context.Background()
	text := "&foo;<a><b/></a>"

	tests := []struct {
		name  string
		first []Option
		other []Option
		codes []string
	}{
		{
			name:  "extra entities",
			first: []Option{WithEntityTable(map[string]string{"foo": "F"})},
			codes: []string{"X000"},
		},
		{
			name:  "different entity text",
			first: []Option{WithEntityTable(map[string]string{"foo": "F"})},
			other: []Option{WithEntityTable(map[string]string{"foo": "G"})},
			codes: []string{},
		},
		{
			name:  "depth limit",
			first: []Option{WithEntityTable(map[string]string{"foo": "F"})},
			other: []Option{WithEntityTable(map[string]string{"foo": "F"}), WithMaxDepth(1)},
			codes: []string{"S900"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cache := NewParseCache(ParseCacheConfig{}, nil)
			first := MustNew(append(tt.first, WithCache(cache))...)
			other := MustNew(append(tt.other, WithCache(cache))...)

			_, err := first.ParseNodes(ctx, testSourceID, text)
			require.NoError(t, err)
			result, err := other.ParseNodes(ctx, testSourceID, text)
			require.NoError(t, err)

			assert.Equal(t, tt.codes, codeStrings(result.Diagnostics))
			assert.Equal(t, 2, cache.Len())
			assert.Equal(t, int64(0), cache.Stats().Hits)
		})
	}

	t.Run("same settings share entries", func(t *testing.T) {
		cache := NewParseCache(ParseCacheConfig{}, nil)
		entities := map[string]string{"foo": "F", "bar": "B"}
		first := MustNew(WithEntityTable(entities), WithCache(cache))
		other := MustNew(WithEntityTable(map[string]string{"bar": "B", "foo": "F"}), WithCache(cache))

		_, err := first.ParseNodes(ctx, testSourceID, text)
		require.NoError(t, err)
		_, err = other.ParseNodes(ctx, testSourceID, text)
		require.NoError(t, err)
		assert.Equal(t, int64(1), cache.Stats().Hits)
	})

	t.Run("entity value reaches the tree", func(t *testing.T) {
		cache := NewParseCache(ParseCacheConfig{}, nil)
		f := MustNew(WithEntityTable(map[string]string{"foo": "F"}), WithCache(cache))
		g := MustNew(WithEntityTable(map[string]string{"foo": "G"}), WithCache(cache))

		_, err := f.ParseNodes(ctx, testSourceID, text)
		require.NoError(t, err)
		result, err := g.ParseNodes(ctx, testSourceID, text)
		require.NoError(t, err)
		assert.Equal(t, "G", result.Root.Children[0].(*Entity).Value)
	})
}

func TestEngine_ParseStored(t *testing.T) {
	ctx := context.Background()

	t.Run("without storage", func(t *testing.T) {
		_, err := MustNew().ParseStored(ctx, "greeting")
		require.Error(t, err)
		assert.Contains(t, err.Error(), ErrMsgNoStorage)
	})

	storage := NewMemoryStorage()
	engine := MustNew(WithStorage(storage))
	require.Same(t, storage, engine.Storage())

	require.NoError(t, storage.Save(ctx, &StoredSource{Name: "greeting", Source: "---\n<p>v1</p>"}))
	require.NoError(t, storage.Save(ctx, &StoredSource{Name: "greeting", Source: "---\n<p>v2"}))

	t.Run("latest version", func(t *testing.T) {
		result, err := engine.ParseStored(ctx, "greeting")
		require.NoError(t, err)
		assert.Equal(t, SourceID("greeting@v2"), result.Source.ID)
		assert.Equal(t, []string{"X101"}, codeStrings(result.Diagnostics))
	})

	t.Run("missing source", func(t *testing.T) {
		_, err := engine.ParseStored(ctx, "missing")
		require.Error(t, err)

		var customErr *cuserr.CustomError
		require.True(t, errors.As(err, &customErr))
		name, ok := customErr.GetMetadata(MetaKeyName)
		assert.True(t, ok)
		assert.Equal(t, "missing", name)
	})
}

func TestEngine_ConcurrentParse(t *testing.T) {
	engine := MustNew(WithCache(NewParseCache(ParseCacheConfig{MaxEntries: 4}, nil)))
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 32)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			text := fmt.Sprintf("---\n<p>{n%d}</p>", i%8)
			result, err := engine.Parse(ctx, testSourceID, text)
			if err != nil {
				errs <- err
				return
			}
			if len(result.Diagnostics) != 0 {
				errs <- fmt.Errorf("unexpected diagnostics: %v", result.Diagnostics)
			}
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}
