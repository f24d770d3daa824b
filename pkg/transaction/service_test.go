package transaction

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/amiskov/spendahead/pkg/session"
)

var testNow = time.Date(2024, 1, 18, 12, 0, 0, 0, time.UTC)

type stubAccounts map[string]string

func (s stubAccounts) Owns(_ context.Context, userID, accountID string) (bool, error) {
	return s[accountID] == userID, nil
}

func authCtx(userID string) context.Context {
	return session.ContextWithSession(context.Background(), &session.Record{Token: "t", UserID: userID})
}

func newTestService(repo *MemoryRepo) *service {
	s := NewService(repo, stubAccounts{"acc-1": "u1"})
	s.now = func() time.Time { return testNow }
	return s
}

func seed(t *testing.T, repo *MemoryRepo) {
	t.Helper()
	for _, tx := range []*Transaction{
		{UserID: "u1", Date: testNow.Add(-time.Hour), Description: "Whole Foods Market", Merchant: "Whole Foods", Category: "Food & Dining", Amount: -85.5, Type: Expense},
		{UserID: "u1", Date: testNow.AddDate(0, 0, -3), Description: "Salary Deposit", Merchant: "Tech Corp", Category: "Income", Amount: 3500, Type: Income},
		{UserID: "u1", Date: testNow.AddDate(0, -1, 0), Description: "Netflix", Merchant: "Netflix", Category: "Entertainment", Amount: -15.99, Type: Expense},
		{UserID: "u2", Date: testNow, Description: "Other user's", Category: "Food & Dining", Amount: -1, Type: Expense},
	} {
		_, err := repo.Add(context.Background(), tx)
		require.NoError(t, err)
	}
}

func TestList_OnlyOwnNewestFirst(t *testing.T) {
	repo := NewMemoryRepo()
	seed(t, repo)

	txs, err := newTestService(repo).List(authCtx("u1"), Query{})
	require.NoError(t, err)
	require.Len(t, txs, 3)
	require.Equal(t, "Whole Foods Market", txs[0].Description)
	require.Equal(t, "Netflix", txs[2].Description)
}

func TestList_Filters(t *testing.T) {
	repo := NewMemoryRepo()
	seed(t, repo)
	s := newTestService(repo)

	cases := []struct {
		name string
		q    Query
		want int
	}{
		{"search description", Query{Search: "salary"}, 1},
		{"search merchant", Query{Search: "whole"}, 1},
		{"category", Query{Category: "entertainment"}, 1},
		{"category all", Query{Category: "all"}, 3},
		{"type", Query{Type: "expense"}, 2},
		{"today", Query{Period: PeriodToday}, 1},
		{"this week", Query{Period: PeriodThisWeek}, 2},
		{"last month", Query{Period: PeriodLastMonth}, 1},
		{"combined", Query{Type: "expense", Period: PeriodThisMonth}, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			txs, err := s.List(authCtx("u1"), tc.q)
			require.NoError(t, err)
			require.Len(t, txs, tc.want)
		})
	}
}

func TestList_BadQuery(t *testing.T) {
	s := newTestService(NewMemoryRepo())

	_, err := s.List(authCtx("u1"), Query{Period: "yesterday"})
	require.ErrorIs(t, err, errUnknownPeriod)
	_, err = s.List(authCtx("u1"), Query{Type: "transfer"})
	require.ErrorIs(t, err, errBadType)
}

func TestList_RequiresSession(t *testing.T) {
	_, err := newTestService(NewMemoryRepo()).List(context.Background(), Query{})
	require.ErrorIs(t, err, session.ErrNoAuth)
}

func TestAdd_NormalisesSign(t *testing.T) {
	s := newTestService(NewMemoryRepo())

	exp, err := s.Add(authCtx("u1"), &NewTransaction{Amount: 42, Description: "Lunch", Type: Expense})
	require.NoError(t, err)
	require.Equal(t, -42.0, exp.Amount)
	require.Equal(t, defaultCategory, exp.Category)
	require.Equal(t, Completed, exp.Status)
	require.Equal(t, testNow, exp.Date)
	require.NotEmpty(t, exp.ID)

	inc, err := s.Add(authCtx("u1"), &NewTransaction{Amount: -100, Description: "Refund", Type: Income, Category: "Refunds"})
	require.NoError(t, err)
	require.Equal(t, 100.0, inc.Amount)

	def, err := s.Add(authCtx("u1"), &NewTransaction{Amount: 5, Description: "Coffee"})
	require.NoError(t, err)
	require.Equal(t, Expense, def.Type)
}

func TestAdd_Validation(t *testing.T) {
	s := newTestService(NewMemoryRepo())
	ctx := authCtx("u1")

	_, err := s.Add(ctx, &NewTransaction{Amount: 0, Description: "x"})
	require.ErrorIs(t, err, errZeroAmount)
	_, err = s.Add(ctx, &NewTransaction{Amount: 1, Description: "  "})
	require.ErrorIs(t, err, errNoDescription)
	_, err = s.Add(ctx, &NewTransaction{Amount: 1, Description: "x", Type: "transfer"})
	require.ErrorIs(t, err, errBadType)
	_, err = s.Add(ctx, &NewTransaction{Amount: 1, Description: "x", AccountID: "acc-2"})
	require.ErrorIs(t, err, errUnknownAccount)

	_, err = s.Add(ctx, &NewTransaction{Amount: 1, Description: "x", AccountID: "acc-1"})
	require.NoError(t, err)
}

func TestSummary(t *testing.T) {
	repo := NewMemoryRepo()
	seed(t, repo)

	sum, err := newTestService(repo).Summary(authCtx("u1"), Query{Period: PeriodThisMonth})
	require.NoError(t, err)
	require.Equal(t, 2, sum.Count)
	require.InDelta(t, 3500, sum.Income, 0.001)
	require.InDelta(t, 85.5, sum.Expenses, 0.001)
	require.InDelta(t, 3414.5, sum.Balance, 0.001)
}
