package goal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"carelink/internal/plan/models"
	id "carelink/pkg/domain"
	"carelink/pkg/platform/sentinel"
	"carelink/pkg/platform/tx"
)

// PostgresStore persists the goal hierarchy in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) SaveLongTerm(ctx context.Context, g models.LongTermGoal) error {
	q := tx.QuerierFrom(ctx, s.db)
	_, err := q.ExecContext(ctx, `
		INSERT INTO long_term_goals (id, plan_id, description, period_start, period_end)
		VALUES ($1, $2, $3, $4, $5)`,
		uuid.UUID(g.ID), uuid.UUID(g.PlanID), g.Description, g.PeriodStart, g.PeriodEnd)
	if err != nil {
		return fmt.Errorf("save long-term goal: %w", err)
	}
	return nil
}

func (s *PostgresStore) SaveShortTerm(ctx context.Context, g models.ShortTermGoal) error {
	q := tx.QuerierFrom(ctx, s.db)
	_, err := q.ExecContext(ctx, `
		INSERT INTO short_term_goals
			(id, long_term_goal_id, description, period_start, period_end, next_review_date)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		uuid.UUID(g.ID), uuid.UUID(g.LongTermGoalID), g.Description,
		g.PeriodStart, g.PeriodEnd, g.NextReviewDate)
	if err != nil {
		return fmt.Errorf("save short-term goal: %w", err)
	}
	return nil
}

func (s *PostgresStore) SaveIndividual(ctx context.Context, g models.IndividualSupportGoal) error {
	q := tx.QuerierFrom(ctx, s.db)
	_, err := q.ExecContext(ctx, `
		INSERT INTO individual_support_goals
			(id, short_term_goal_id, concrete_goal, user_commitment, support_actions,
			 service_type, is_facility_in_deemed, is_work_preparation)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		uuid.UUID(g.ID), uuid.UUID(g.ShortTermGoalID), g.ConcreteGoal, g.UserCommitment,
		g.SupportActions, string(g.ServiceType), g.IsFacilityInDeemed, g.IsWorkPreparation)
	if err != nil {
		return fmt.Errorf("save individual goal: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetLongTerm(ctx context.Context, goalID id.LongTermGoalID) (models.LongTermGoal, error) {
	q := tx.QuerierFrom(ctx, s.db)
	row := q.QueryRowContext(ctx, `
		SELECT id, plan_id, description, period_start, period_end
		FROM long_term_goals WHERE id = $1`, uuid.UUID(goalID))

	var g models.LongTermGoal
	var gid, pid uuid.UUID
	if err := row.Scan(&gid, &pid, &g.Description, &g.PeriodStart, &g.PeriodEnd); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.LongTermGoal{}, sentinel.ErrNotFound
		}
		return models.LongTermGoal{}, fmt.Errorf("get long-term goal: %w", err)
	}
	g.ID = id.LongTermGoalID(gid)
	g.PlanID = id.PlanID(pid)
	return g, nil
}

func (s *PostgresStore) GetShortTerm(ctx context.Context, goalID id.ShortTermGoalID) (models.ShortTermGoal, error) {
	q := tx.QuerierFrom(ctx, s.db)
	row := q.QueryRowContext(ctx, `
		SELECT id, long_term_goal_id, description, period_start, period_end, next_review_date
		FROM short_term_goals WHERE id = $1`, uuid.UUID(goalID))

	var g models.ShortTermGoal
	var gid, ltid uuid.UUID
	if err := row.Scan(&gid, &ltid, &g.Description, &g.PeriodStart, &g.PeriodEnd, &g.NextReviewDate); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.ShortTermGoal{}, sentinel.ErrNotFound
		}
		return models.ShortTermGoal{}, fmt.Errorf("get short-term goal: %w", err)
	}
	g.ID = id.ShortTermGoalID(gid)
	g.LongTermGoalID = id.LongTermGoalID(ltid)
	return g, nil
}

func (s *PostgresStore) ResolveIndividual(ctx context.Context, goalID id.GoalID) (models.IndividualSupportGoal, error) {
	q := tx.QuerierFrom(ctx, s.db)
	row := q.QueryRowContext(ctx, `
		SELECT id, short_term_goal_id, concrete_goal, user_commitment, support_actions,
			service_type, is_facility_in_deemed, is_work_preparation
		FROM individual_support_goals WHERE id = $1`, uuid.UUID(goalID))
	return scanIndividual(row)
}

// OwningPlanID resolves the plan owning an individual goal in one joined
// query across the hierarchy.
func (s *PostgresStore) OwningPlanID(ctx context.Context, goalID id.GoalID) (id.PlanID, error) {
	q := tx.QuerierFrom(ctx, s.db)
	row := q.QueryRowContext(ctx, `
		SELECT lt.plan_id
		FROM individual_support_goals isg
		JOIN short_term_goals st ON st.id = isg.short_term_goal_id
		JOIN long_term_goals lt ON lt.id = st.long_term_goal_id
		WHERE isg.id = $1`, uuid.UUID(goalID))

	var pid uuid.UUID
	if err := row.Scan(&pid); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return id.PlanID{}, sentinel.ErrNotFound
		}
		return id.PlanID{}, fmt.Errorf("resolve owning plan: %w", err)
	}
	return id.PlanID(pid), nil
}

func (s *PostgresStore) Tree(ctx context.Context, planID id.PlanID) (models.GoalTree, error) {
	q := tx.QuerierFrom(ctx, s.db)
	var tree models.GoalTree

	rows, err := q.QueryContext(ctx, `
		SELECT id, plan_id, description, period_start, period_end
		FROM long_term_goals WHERE plan_id = $1`, uuid.UUID(planID))
	if err != nil {
		return models.GoalTree{}, fmt.Errorf("list long-term goals: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var g models.LongTermGoal
		var gid, pid uuid.UUID
		if err := rows.Scan(&gid, &pid, &g.Description, &g.PeriodStart, &g.PeriodEnd); err != nil {
			return models.GoalTree{}, fmt.Errorf("scan long-term goal: %w", err)
		}
		g.ID = id.LongTermGoalID(gid)
		g.PlanID = id.PlanID(pid)
		tree.LongTerm = append(tree.LongTerm, g)
	}
	if err := rows.Err(); err != nil {
		return models.GoalTree{}, fmt.Errorf("list long-term goals: %w", err)
	}

	stRows, err := q.QueryContext(ctx, `
		SELECT st.id, st.long_term_goal_id, st.description, st.period_start, st.period_end, st.next_review_date
		FROM short_term_goals st
		JOIN long_term_goals lt ON lt.id = st.long_term_goal_id
		WHERE lt.plan_id = $1`, uuid.UUID(planID))
	if err != nil {
		return models.GoalTree{}, fmt.Errorf("list short-term goals: %w", err)
	}
	defer stRows.Close()
	for stRows.Next() {
		var g models.ShortTermGoal
		var gid, ltid uuid.UUID
		if err := stRows.Scan(&gid, &ltid, &g.Description, &g.PeriodStart, &g.PeriodEnd, &g.NextReviewDate); err != nil {
			return models.GoalTree{}, fmt.Errorf("scan short-term goal: %w", err)
		}
		g.ID = id.ShortTermGoalID(gid)
		g.LongTermGoalID = id.LongTermGoalID(ltid)
		tree.ShortTerm = append(tree.ShortTerm, g)
	}
	if err := stRows.Err(); err != nil {
		return models.GoalTree{}, fmt.Errorf("list short-term goals: %w", err)
	}

	indRows, err := q.QueryContext(ctx, `
		SELECT isg.id, isg.short_term_goal_id, isg.concrete_goal, isg.user_commitment,
			isg.support_actions, isg.service_type, isg.is_facility_in_deemed, isg.is_work_preparation
		FROM individual_support_goals isg
		JOIN short_term_goals st ON st.id = isg.short_term_goal_id
		JOIN long_term_goals lt ON lt.id = st.long_term_goal_id
		WHERE lt.plan_id = $1`, uuid.UUID(planID))
	if err != nil {
		return models.GoalTree{}, fmt.Errorf("list individual goals: %w", err)
	}
	defer indRows.Close()
	for indRows.Next() {
		var g models.IndividualSupportGoal
		var gid, stid uuid.UUID
		var serviceType string
		if err := indRows.Scan(&gid, &stid, &g.ConcreteGoal, &g.UserCommitment,
			&g.SupportActions, &serviceType, &g.IsFacilityInDeemed, &g.IsWorkPreparation); err != nil {
			return models.GoalTree{}, fmt.Errorf("scan individual goal: %w", err)
		}
		g.ID = id.GoalID(gid)
		g.ShortTermGoalID = id.ShortTermGoalID(stid)
		g.ServiceType = models.GoalServiceType(serviceType)
		tree.Individual = append(tree.Individual, g)
	}
	if err := indRows.Err(); err != nil {
		return models.GoalTree{}, fmt.Errorf("list individual goals: %w", err)
	}
	return tree, nil
}

func scanIndividual(row *sql.Row) (models.IndividualSupportGoal, error) {
	var g models.IndividualSupportGoal
	var gid, stid uuid.UUID
	var serviceType string
	err := row.Scan(&gid, &stid, &g.ConcreteGoal, &g.UserCommitment, &g.SupportActions,
		&serviceType, &g.IsFacilityInDeemed, &g.IsWorkPreparation)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.IndividualSupportGoal{}, sentinel.ErrNotFound
		}
		return models.IndividualSupportGoal{}, fmt.Errorf("get individual goal: %w", err)
	}
	g.ID = id.GoalID(gid)
	g.ShortTermGoalID = id.ShortTermGoalID(stid)
	g.ServiceType = models.GoalServiceType(serviceType)
	return g, nil
}
