package pricing

import (
	"context"
	"fmt"
	"math"
	"sort"

	"go.uber.org/zap"

	"directum-studio/apperr"
	"directum-studio/models"
	"directum-studio/utils"
)

// Precedence decides which matrix row wins when several match a decoration
type Precedence string

const (
	// PrecedenceFirst keeps matrix order
	PrecedenceFirst Precedence = "first"
	// PrecedenceMostSpecific prefers rows with more declared constraints and a narrower quantity window
	PrecedenceMostSpecific Precedence = "most_specific"
	// PrecedenceCheapest prefers the lowest cost per piece, then the lowest setup fee
	PrecedenceCheapest Precedence = "cheapest"
)

// ParsePrecedence validates a configured precedence name
func ParsePrecedence(s string) (Precedence, error) {
	switch p := Precedence(s); p {
	case "", PrecedenceFirst:
		return PrecedenceFirst, nil
	case PrecedenceMostSpecific, PrecedenceCheapest:
		return p, nil
	}
	return "", fmt.Errorf("unknown pricing precedence %q", s)
}

// BreakpointLookup returns the catalog net price table of a product
type BreakpointLookup interface {
	Breakpoints(ctx context.Context, prodEID string) (*models.PriceBreakpoints, error)
}

// Options configures an Engine
type Options struct {
	Matrix     MatrixSource
	Blanks     BreakpointLookup
	Precedence Precedence
	// Strict turns an unmatched decoration into an error instead of a zero-cost warning
	Strict bool
	Logger *zap.Logger
}

// Engine prices quote lines from the decoration matrix
type Engine struct {
	matrix     MatrixSource
	blanks     BreakpointLookup
	precedence Precedence
	strict     bool
	logger     *zap.Logger
}

// NewEngine creates a pricing engine
func NewEngine(opts Options) *Engine {
	if opts.Precedence == "" {
		opts.Precedence = PrecedenceFirst
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Engine{
		matrix:     opts.Matrix,
		blanks:     opts.Blanks,
		precedence: opts.Precedence,
		strict:     opts.Strict,
		logger:     opts.Logger,
	}
}

// PriceQuote loads the matrix once and prices every line in request order
func (e *Engine) PriceQuote(ctx context.Context, lines []models.QuoteLineRequest) ([]models.QuoteLine, error) {
	if len(lines) == 0 {
		return nil, apperr.InvalidInput("lines required")
	}

	matrix, err := e.matrix.LoadMatrix(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]models.QuoteLine, 0, len(lines))
	for i, line := range lines {
		priced, err := e.PriceLine(ctx, line, matrix)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i, err)
		}
		out = append(out, priced)
	}
	return out, nil
}

// PriceLine prices one line against an already loaded matrix. Money values in
// the result are rounded to cents; intermediate sums are not.
func (e *Engine) PriceLine(ctx context.Context, line models.QuoteLineRequest, matrix []models.PricingMatrixRow) (models.QuoteLine, error) {
	qty := line.Qty
	if qty < 1 {
		qty = 1
	}

	unitBlank := line.UnitBlankCost
	if unitBlank <= 0 {
		unitBlank = e.blankCost(ctx, line.ProdEID, qty)
	}

	var decorUnit, setupFees float64
	var warnings []string
	decorations := make([]models.DecorationCost, 0, len(line.Decorations))
	for _, d := range line.Decorations {
		idx, ok := e.PickRow(matrix, d, qty)
		if !ok {
			if e.strict {
				return models.QuoteLine{}, apperr.WithMetadata(apperr.CodeUnresolvedPricingRow,
					fmt.Sprintf("no pricing row for %s at qty %d", d.Method, qty),
					map[string]any{"method": d.Method, "qty": qty, "colors": d.Colors, "stitches": d.Stitches})
			}
			e.logger.Warn("⚠️  no pricing row matched, decoration priced at zero",
				zap.String("productId", line.ProductID),
				zap.String("method", d.Method),
				zap.Int("qty", qty),
				zap.Int("colors", d.Colors),
				zap.Int("stitches", d.Stitches))
			warnings = append(warnings, fmt.Sprintf("no pricing row matched for %s", d.Method))
			decorations = append(decorations, models.DecorationCost{Method: d.Method})
			continue
		}

		row := matrix[idx]
		rowIndex := idx
		decorUnit += row.CostPerPiece
		setupFees += row.SetupFee
		decorations = append(decorations, models.DecorationCost{
			Method:   d.Method,
			CostEach: row.CostPerPiece,
			Setup:    row.SetupFee,
			Matched:  true,
			RowIndex: &rowIndex,
		})
	}

	unit := unitBlank + decorUnit
	extended := unit*float64(qty) + setupFees

	productID := line.ProductID
	if productID == "" {
		productID = line.ProdEID
	}
	return models.QuoteLine{
		ProductID:     productID,
		Qty:           qty,
		UnitBlankCost: utils.Round2(unitBlank),
		DecorUnit:     utils.Round2(decorUnit),
		Unit:          utils.Round2(unit),
		SetupFees:     utils.Round2(setupFees),
		Extended:      utils.Round2(extended),
		Decorations:   decorations,
		Warnings:      warnings,
	}, nil
}

// PickRow returns the index of the matrix row applying to a decoration at qty
func (e *Engine) PickRow(matrix []models.PricingMatrixRow, d models.Decoration, qty int) (int, bool) {
	candidates := matchingRows(matrix, d, qty)
	if len(candidates) == 0 {
		return 0, false
	}

	switch e.precedence {
	case PrecedenceMostSpecific:
		sort.SliceStable(candidates, func(i, j int) bool {
			a, b := matrix[candidates[i]], matrix[candidates[j]]
			if ca, cb := constraintCount(a), constraintCount(b); ca != cb {
				return ca > cb
			}
			if wa, wb := qtyWindow(a), qtyWindow(b); wa != wb {
				return wa < wb
			}
			return a.Priority > b.Priority
		})
	case PrecedenceCheapest:
		sort.SliceStable(candidates, func(i, j int) bool {
			a, b := matrix[candidates[i]], matrix[candidates[j]]
			if a.CostPerPiece != b.CostPerPiece {
				return a.CostPerPiece < b.CostPerPiece
			}
			return a.SetupFee < b.SetupFee
		})
	}
	return candidates[0], true
}

// matchingRows returns indexes of every row passing the method, quantity and
// method-specific filters, in matrix order.
func matchingRows(matrix []models.PricingMatrixRow, d models.Decoration, qty int) []int {
	colors := d.Colors
	if colors <= 0 {
		colors = 1
	}
	stitches := d.Stitches
	if stitches < 0 {
		stitches = 0
	}

	var out []int
	for i, r := range matrix {
		if r.Method != d.Method {
			continue
		}
		if qty < qtyMin(r) || (r.QtyMax != nil && qty > *r.QtyMax) {
			continue
		}
		switch d.Method {
		case models.MethodScreen, models.MethodDTF:
			if r.Colors != nil && *r.Colors != colors {
				continue
			}
		case models.MethodEmbroidery:
			if r.StitchMax != nil && stitches > *r.StitchMax {
				continue
			}
		}
		out = append(out, i)
	}
	return out
}

func qtyMin(r models.PricingMatrixRow) int {
	if r.QtyMin == nil || *r.QtyMin < 1 {
		return 1
	}
	return *r.QtyMin
}

func qtyWindow(r models.PricingMatrixRow) int {
	if r.QtyMax == nil {
		return math.MaxInt
	}
	return *r.QtyMax - qtyMin(r)
}

func constraintCount(r models.PricingMatrixRow) int {
	n := 0
	for _, set := range []bool{r.QtyMin != nil, r.QtyMax != nil, r.Colors != nil, r.StitchMax != nil} {
		if set {
			n++
		}
	}
	return n
}

// blankCost falls back to catalog breakpoints; any lookup failure means zero
func (e *Engine) blankCost(ctx context.Context, prodEID string, qty int) float64 {
	if e.blanks == nil || prodEID == "" {
		return 0
	}
	bp, err := e.blanks.Breakpoints(ctx, prodEID)
	if err != nil {
		e.logger.Warn("⚠️  blank cost lookup failed, using zero",
			zap.String("prodEId", prodEID), zap.Error(err))
		return 0
	}
	return BlankFromBreakpoints(bp, qty)
}

// BlankFromBreakpoints returns the net price of the highest breakpoint whose
// quantity does not exceed qty. Breakpoints need not be sorted.
func BlankFromBreakpoints(bp *models.PriceBreakpoints, qty int) float64 {
	if bp == nil {
		return 0
	}
	var cost float64
	best := -1
	for i, q := range bp.Qty {
		if i >= len(bp.Net) {
			break
		}
		if qty >= q && q > best && bp.Net[i] > 0 {
			best = q
			cost = bp.Net[i]
		}
	}
	return cost
}
