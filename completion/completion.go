// Package completion implements the Completion Engine (C9): it is the
// single orchestration point that turns a document snapshot and cursor
// position into a list of CompletionItems, dispatching across the context
// classifier (C6), scope builder (C5), alias resolver (C4), keyword
// provider (C7), and renderer (C8) per variant.
package completion

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/sqlls/sqlls"
	"github.com/sqlls/sqlls/catalog"
	"github.com/sqlls/sqlls/classify"
	"github.com/sqlls/sqlls/document"
	"github.com/sqlls/sqlls/keywords"
	"github.com/sqlls/sqlls/render"
	"github.com/sqlls/sqlls/resolver"
	"github.com/sqlls/sqlls/scope"
)

// Engine wires one Catalog and dialect into a ready-to-use completion
// pipeline. A nil Logger silently disables the catalog-error logging that
// §7 requires ("catalog errors: logged by the engine").
type Engine struct {
	catalog  catalog.Catalog
	resolver *resolver.Resolver
	scope    *scope.Builder
	keywords *keywords.Provider

	Logger *logrus.Logger
}

// New returns an Engine backed by cat, rendering keywords for dialect.
func New(cat catalog.Catalog, dialect sqlls.Dialect) *Engine {
	res := resolver.New(cat)

	return &Engine{
		catalog:  cat,
		resolver: res,
		scope:    scope.New(res),
		keywords: keywords.New(dialect),
	}
}

// Complete runs the full pipeline for one textDocument/completion request.
// ok is false for "no completion" (the LSP response should be null); a
// true result may still carry a zero-length slice, e.g. an invalid
// qualifier under §4.9's error policy.
func (e *Engine) Complete(ctx context.Context, snap document.Snapshot, pos document.Position) ([]render.CompletionItem, bool) {
	offset := snap.Offset(pos)
	cc := classify.Classify(snap.Tree, snap.Text, offset)

	switch cc.Kind {
	case classify.SelectProjection:
		return e.completeSelectProjection(ctx, snap, offset, cc), true
	case classify.WhereClause, classify.OrderByClause, classify.GroupByClause, classify.HavingClause, classify.ReturningClause:
		return e.completeClauseColumns(ctx, snap, offset, cc), true
	case classify.FromClause:
		return e.completeFromClause(ctx, snap, offset, cc)
	case classify.JoinCondition:
		return e.completeJoinCondition(ctx, cc)
	case classify.LimitClause:
		return e.completeLimitClause(), true
	case classify.CteDefinition:
		return e.completeCteDefinition(ctx, cc)
	case classify.WindowFunctionClause:
		return e.completeWindowFunction(ctx, snap, offset, cc)
	case classify.Keywords:
		return e.completeKeywords(ctx, cc), true
	default:
		return nil, false
	}
}

func (e *Engine) logCatalogError(err error) {
	if e.Logger == nil {
		return
	}

	e.Logger.WithError(err).Warn("completion: catalog call failed, degrading to no completion")
}
