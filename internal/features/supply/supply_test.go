package supply

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConsistentBalancedBooks(t *testing.T) {
	report := &AuditReport{TotalIssued: 500, MaxSupply: 1000, SumBalances: 500}
	require.True(t, report.Consistent())
}

func TestConsistentExactlyAtCap(t *testing.T) {
	report := &AuditReport{TotalIssued: 1000, MaxSupply: 1000, SumBalances: 1000}
	require.True(t, report.Consistent())
}

func TestConsistentRejectsOverCap(t *testing.T) {
	report := &AuditReport{TotalIssued: 1001, MaxSupply: 1000, SumBalances: 1001}
	require.False(t, report.Consistent())
}

func TestConsistentRejectsBalanceMismatch(t *testing.T) {
	// Выпуск и сумма балансов разошлись — баг в транзакционной логике
	report := &AuditReport{TotalIssued: 500, MaxSupply: 1000, SumBalances: 499}
	require.False(t, report.Consistent())

	report = &AuditReport{TotalIssued: 500, MaxSupply: 1000, SumBalances: 501}
	require.False(t, report.Consistent())
}

func TestConsistentRejectsNegativeIssued(t *testing.T) {
	report := &AuditReport{TotalIssued: -1, MaxSupply: 1000, SumBalances: -1}
	require.False(t, report.Consistent())
}

func TestCapAllowsFits(t *testing.T) {
	require.True(t, capAllows(0, 1000, 15))
	require.True(t, capAllows(900, 1000, 100))
}

func TestCapAllowsExactBoundary(t *testing.T) {
	// Ровно до потолка — разрешено, на единицу больше — нет
	require.True(t, capAllows(985, 1000, 15))
	require.False(t, capAllows(986, 1000, 15))
}

func TestCapAllowsRejectsOverflow(t *testing.T) {
	require.False(t, capAllows(1000, 1000, 1))
	require.False(t, capAllows(0, 10, 11))
}

func TestCapChecksCompoundSumNotShares(t *testing.T) {
	// Парная награда 10+5 проверяется одной суммой: если остаток 14,
	// не проходит ни одна из сторон, хотя каждая доля влезла бы по отдельности
	const giverReward, recipientBonus = int64(10), int64(5)
	issued, capacity := int64(986), int64(1000)

	require.True(t, capAllows(issued, capacity, giverReward))
	require.True(t, capAllows(issued, capacity, recipientBonus))
	require.False(t, capAllows(issued, capacity, giverReward+recipientBonus))
}
