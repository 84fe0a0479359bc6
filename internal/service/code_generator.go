package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/eczbabil/ajans-yonetim-sistemi/internal/models"
	"github.com/eczbabil/ajans-yonetim-sistemi/internal/repository"
	appErrors "github.com/eczbabil/ajans-yonetim-sistemi/pkg/errors"
)

const (
	defaultCodeAttempts = 5
	codeSavepoint       = "code_alloc"
	workItemCodeMarker  = "-IS"
	deliverableSuffix   = 3
	unknownClientCode   = "UNKNOWN"
)

type clientCodeStore interface {
	LastCode(ctx context.Context, exec sqlx.ExtContext) (string, error)
	CodeExists(ctx context.Context, exec sqlx.ExtContext, code string) (bool, error)
}

type scopedCodeStore interface {
	LastCodeForClient(ctx context.Context, exec sqlx.ExtContext, clientID int64) (string, error)
	CodeExists(ctx context.Context, exec sqlx.ExtContext, code string) (bool, error)
}

// CodeGenerator allocates human-readable codes for clients, work items and deliverables.
type CodeGenerator struct {
	clients      clientCodeStore
	workItems    scopedCodeStore
	deliverables scopedCodeStore
	maxAttempts  int
}

// NewCodeGenerator constructs a CodeGenerator. maxAttempts bounds Allocate retries.
func NewCodeGenerator(clients clientCodeStore, workItems, deliverables scopedCodeStore, maxAttempts int) *CodeGenerator {
	if maxAttempts <= 0 {
		maxAttempts = defaultCodeAttempts
	}
	return &CodeGenerator{clients: clients, workItems: workItems, deliverables: deliverables, maxAttempts: maxAttempts}
}

// NextClientCode returns the next free MST### code.
func (g *CodeGenerator) NextClientCode(ctx context.Context, exec sqlx.ExtContext) (string, error) {
	last, err := g.clients.LastCode(ctx, exec)
	if err != nil {
		return "", err
	}
	n := nextNumber(strings.TrimPrefix(last, models.ClientCodePrefix))
	return g.probe(ctx, exec, g.clients.CodeExists, n, func(n int) string {
		return fmt.Sprintf("%s%03d", models.ClientCodePrefix, n)
	})
}

// NextWorkItemCode returns the next free {client}-IS### code for the client's work items.
func (g *CodeGenerator) NextWorkItemCode(ctx context.Context, exec sqlx.ExtContext, client *models.Client) (string, error) {
	if client == nil || client.Code == "" {
		return g.probe(ctx, exec, g.workItems.CodeExists, 1, func(n int) string {
			return fmt.Sprintf("%s%s%03d", unknownClientCode, workItemCodeMarker, n)
		})
	}
	last, err := g.workItems.LastCodeForClient(ctx, exec, client.ID)
	if err != nil {
		return "", err
	}
	suffix := ""
	if idx := strings.LastIndex(last, workItemCodeMarker); idx >= 0 {
		suffix = last[idx+len(workItemCodeMarker):]
	}
	return g.probe(ctx, exec, g.workItems.CodeExists, nextNumber(suffix), func(n int) string {
		return fmt.Sprintf("%s%s%03d", client.Code, workItemCodeMarker, n)
	})
}

// NextDeliverableCode returns the next free TSL{client}### code for the client's deliverables.
func (g *CodeGenerator) NextDeliverableCode(ctx context.Context, exec sqlx.ExtContext, client *models.Client) (string, error) {
	if client == nil || client.Code == "" {
		return g.probe(ctx, exec, g.deliverables.CodeExists, 1, func(n int) string {
			return fmt.Sprintf("%s%s%03d", models.DeliverableCodePrefix, unknownClientCode, n)
		})
	}
	last, err := g.deliverables.LastCodeForClient(ctx, exec, client.ID)
	if err != nil {
		return "", err
	}
	suffix := ""
	if len(last) >= deliverableSuffix {
		suffix = last[len(last)-deliverableSuffix:]
	}
	return g.probe(ctx, exec, g.deliverables.CodeExists, nextNumber(suffix), func(n int) string {
		return fmt.Sprintf("%s%s%03d", models.DeliverableCodePrefix, client.Code, n)
	})
}

// Allocate runs insert until it stops failing on a unique violation, at most maxAttempts times.
// Each attempt runs under a savepoint so a collision inside a transaction does not abort it.
// insert is expected to generate a fresh code on every call.
func (g *CodeGenerator) Allocate(ctx context.Context, exec sqlx.ExtContext, entity string, insert func() error) error {
	var lastErr error
	for attempt := 1; attempt <= g.maxAttempts; attempt++ {
		err := repository.WithSavepoint(ctx, exec, codeSavepoint, insert)
		if err == nil {
			return nil
		}
		if !repository.IsUniqueViolation(err) {
			return err
		}
		lastErr = err
	}
	return appErrors.Wrap(lastErr, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, fmt.Sprintf("failed to allocate %s code", entity))
}

func (g *CodeGenerator) probe(ctx context.Context, exec sqlx.ExtContext, exists func(context.Context, sqlx.ExtContext, string) (bool, error), n int, format func(int) string) (string, error) {
	for {
		code := format(n)
		taken, err := exists(ctx, exec, code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
		n++
	}
}

// nextNumber parses a numeric suffix and returns its successor, or 1 when it does not parse.
func nextNumber(suffix string) int {
	n, err := strconv.Atoi(suffix)
	if err != nil || n < 0 {
		return 1
	}
	return n + 1
}
