package game

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// eqTol is the floating tolerance for probability validity, indifference and
// best-response checks during equilibrium search.
const eqTol = 1e-9

// dedupeTol is the per-entry tolerance when deduplicating equilibria found
// via different candidate supports.
const dedupeTol = 1e-6

// StrategyProfile is a pair of mixed strategies, one distribution per player.
type StrategyProfile struct {
	Row []float64 `json:"row"`
	Col []float64 `json:"col"`
}

// PureEquilibrium is a pure-strategy Nash equilibrium cell.
type PureEquilibrium struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// EquilibriumResult holds all equilibria found for a payoff matrix.
type EquilibriumResult struct {
	Equilibria     []StrategyProfile `json:"equilibria"`
	PureEquilibria []PureEquilibrium `json:"pure_equilibria"`
	IsUnique       bool              `json:"is_unique"`
	NumEquilibria  int               `json:"num_equilibria"`
}

// ComputeEquilibria finds the Nash equilibria of a two-player game given the
// row player's payoff matrix, under the symmetric-game assumption that the
// column player's payoffs are the transpose. Pure equilibria come from a
// best-response scan over every cell; mixed equilibria come from support
// enumeration. Support enumeration is defined for square matrices only, so a
// non-square matrix is rejected rather than silently mishandled.
func ComputeEquilibria(matrix [][]float64) (*EquilibriumResult, error) {
	if err := validateMatrix(matrix); err != nil {
		return nil, err
	}
	n := len(matrix)
	if len(matrix[0]) != n {
		return nil, fmt.Errorf("%w: support enumeration requires a square matrix, got %dx%d", ErrInvalidMatrix, n, len(matrix[0]))
	}

	a := mat.NewDense(n, n, flatten(matrix))
	// Column player's payoffs mirror the row player's.
	b := mat.DenseCopyOf(a.T())

	result := &EquilibriumResult{
		Equilibria:     findMixedEquilibria(a, b, n),
		PureEquilibria: findPureEquilibria(matrix),
	}
	result.NumEquilibria = len(result.Equilibria)
	result.IsUnique = result.NumEquilibria == 1
	return result, nil
}

// findPureEquilibria reports every cell (i,j) where neither player has a
// profitable unilateral deviation: the cell is a column maximum for the row
// player and a row maximum for the column player.
func findPureEquilibria(matrix [][]float64) []PureEquilibrium {
	pure := []PureEquilibrium{}
	rows := len(matrix)
	cols := len(matrix[0])

	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			best := true
			for r := 0; r < rows && best; r++ {
				if matrix[r][j] > matrix[i][j] {
					best = false
				}
			}
			for c := 0; c < cols && best; c++ {
				if matrix[i][c] > matrix[i][j] {
					best = false
				}
			}
			if best {
				pure = append(pure, PureEquilibrium{Row: i, Col: j})
			}
		}
	}
	return pure
}

// findMixedEquilibria enumerates every pair of non-empty candidate supports.
// For each pair it solves the indifference system with a least-squares solve
// and then verifies the full equilibrium conditions, so infeasible and
// over-determined candidates fall out naturally.
func findMixedEquilibria(a, b *mat.Dense, n int) []StrategyProfile {
	var found []StrategyProfile
	supports := enumerateSupports(n)

	for _, rowSupport := range supports {
		for _, colSupport := range supports {
			// Row mix must make the column player indifferent across its
			// support; column mix must do the same for the row player.
			x := solveIndifference(b, rowSupport, colSupport, n, false)
			if x == nil {
				continue
			}
			y := solveIndifference(a, colSupport, rowSupport, n, true)
			if y == nil {
				continue
			}
			if !isBestResponse(a, b, x, y, n) {
				continue
			}
			profile := StrategyProfile{Row: x, Col: y}
			if !containsProfile(found, profile) {
				found = append(found, profile)
			}
		}
	}
	return found
}

// solveIndifference solves for the mixing player's distribution over its
// support such that the observing player is indifferent across the observed
// support. payoffs holds the observing player's payoffs; when transposed is
// false the mixing player indexes rows, otherwise columns.
func solveIndifference(payoffs *mat.Dense, mixSupport, observedSupport []int, n int, transposed bool) []float64 {
	k := len(mixSupport)
	rows := len(observedSupport) + 1
	coeffs := mat.NewDense(rows, k+1, nil)
	rhs := mat.NewVecDense(rows, nil)

	// One equation per observed pure strategy: payoff minus the common
	// value v equals zero.
	for e, obs := range observedSupport {
		for m, mix := range mixSupport {
			if transposed {
				coeffs.Set(e, m, payoffs.At(obs, mix))
			} else {
				coeffs.Set(e, m, payoffs.At(mix, obs))
			}
		}
		coeffs.Set(e, k, -1)
	}
	// Probabilities sum to one.
	for m := 0; m < k; m++ {
		coeffs.Set(rows-1, m, 1)
	}
	rhs.SetVec(rows-1, 1)

	var solution mat.VecDense
	if err := solution.SolveVec(coeffs, rhs); err != nil {
		return nil
	}

	// Least-squares solutions of infeasible systems must be rejected here.
	var check mat.VecDense
	check.MulVec(coeffs, &solution)
	for i := 0; i < rows; i++ {
		if math.Abs(check.AtVec(i)-rhs.AtVec(i)) > eqTol {
			return nil
		}
	}

	full := make([]float64, n)
	sum := 0.0
	for m, mix := range mixSupport {
		p := solution.AtVec(m)
		if p < -eqTol {
			return nil
		}
		if p < 0 {
			p = 0
		}
		full[mix] = p
		sum += p
	}
	if math.Abs(sum-1) > eqTol {
		return nil
	}
	for i := range full {
		full[i] /= sum
	}
	return full
}

// isBestResponse verifies that neither player can improve by deviating to any
// pure strategy outside the candidate profile.
func isBestResponse(a, b *mat.Dense, x, y []float64, n int) bool {
	xVec := mat.NewVecDense(n, x)
	yVec := mat.NewVecDense(n, y)

	// Row player's payoff per pure row against y.
	var rowPayoffs mat.VecDense
	rowPayoffs.MulVec(a, yVec)
	// Column player's payoff per pure column against x.
	var colPayoffs mat.VecDense
	colPayoffs.MulVec(b.T(), xVec)

	vRow := mat.Dot(xVec, &rowPayoffs)
	vCol := mat.Dot(yVec, &colPayoffs)

	for i := 0; i < n; i++ {
		if rowPayoffs.AtVec(i) > vRow+eqTol {
			return false
		}
		if colPayoffs.AtVec(i) > vCol+eqTol {
			return false
		}
	}
	return true
}

// enumerateSupports lists every non-empty subset of {0..n-1}.
func enumerateSupports(n int) [][]int {
	supports := make([][]int, 0, (1<<n)-1)
	for bits := 1; bits < 1<<n; bits++ {
		var support []int
		for i := 0; i < n; i++ {
			if bits&(1<<i) != 0 {
				support = append(support, i)
			}
		}
		supports = append(supports, support)
	}
	return supports
}

func containsProfile(profiles []StrategyProfile, candidate StrategyProfile) bool {
	for _, p := range profiles {
		if vectorsEqual(p.Row, candidate.Row) && vectorsEqual(p.Col, candidate.Col) {
			return true
		}
	}
	return false
}

func vectorsEqual(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math.Abs(a[i]-b[i]) > dedupeTol {
			return false
		}
	}
	return true
}

// IsDominantStrategy reports whether the strategy at index is dominant for
// the given player (0 = row, 1 = column): its payoff must be at least every
// other same-player strategy's payoff for every opponent choice.
func IsDominantStrategy(matrix [][]float64, index, player int) (bool, error) {
	if err := validateMatrix(matrix); err != nil {
		return false, err
	}
	rows := len(matrix)
	cols := len(matrix[0])

	switch player {
	case 0:
		if index < 0 || index >= rows {
			return false, fmt.Errorf("%w: row index %d out of range", ErrInvalidMatrix, index)
		}
		for r := 0; r < rows; r++ {
			if r == index {
				continue
			}
			for j := 0; j < cols; j++ {
				if matrix[index][j] < matrix[r][j] {
					return false, nil
				}
			}
		}
		return true, nil
	case 1:
		if index < 0 || index >= cols {
			return false, fmt.Errorf("%w: column index %d out of range", ErrInvalidMatrix, index)
		}
		// Column player's payoffs are the transpose of the row matrix.
		for c := 0; c < cols; c++ {
			if c == index {
				continue
			}
			for i := 0; i < rows; i++ {
				if matrix[i][index] < matrix[i][c] {
					return false, nil
				}
			}
		}
		return true, nil
	default:
		return false, fmt.Errorf("%w: player must be 0 or 1, got %d", ErrInvalidMatrix, player)
	}
}

// ComputeExpectedPayoff evaluates the bilinear form row' * matrix * col for
// the row player under a mixed strategy profile.
func ComputeExpectedPayoff(matrix [][]float64, profile StrategyProfile) (float64, error) {
	if err := validateMatrix(matrix); err != nil {
		return 0, err
	}
	rows := len(matrix)
	cols := len(matrix[0])
	if len(profile.Row) != rows || len(profile.Col) != cols {
		return 0, fmt.Errorf("%w: profile dimensions %dx%d do not match matrix %dx%d",
			ErrInvalidMatrix, len(profile.Row), len(profile.Col), rows, cols)
	}

	a := mat.NewDense(rows, cols, flatten(matrix))
	x := mat.NewVecDense(rows, profile.Row)
	y := mat.NewVecDense(cols, profile.Col)
	return mat.Inner(x, a, y), nil
}

func validateMatrix(matrix [][]float64) error {
	if len(matrix) == 0 || len(matrix[0]) == 0 {
		return fmt.Errorf("%w: matrix is empty", ErrInvalidMatrix)
	}
	width := len(matrix[0])
	for i, row := range matrix {
		if len(row) != width {
			return fmt.Errorf("%w: row %d has %d columns, expected %d", ErrInvalidMatrix, i, len(row), width)
		}
	}
	return nil
}

func flatten(matrix [][]float64) []float64 {
	rows := len(matrix)
	cols := len(matrix[0])
	data := make([]float64, 0, rows*cols)
	for i := 0; i < rows; i++ {
		data = append(data, matrix[i]...)
	}
	return data
}
