package migrations

import "abletech/common/database/schema"

var CreateDailyEngagementView = schema.Migration{
	Version:     2,
	Description: "Create daily engagement rollup",
	Up: `
		CREATE MATERIALIZED VIEW IF NOT EXISTS daily_engagement
		ENGINE = SummingMergeTree()
		ORDER BY (day, type, action)
		POPULATE
		AS SELECT
			toDate(occurred_at) AS day,
			type,
			action,
			count() AS events
		FROM engagement_events
		GROUP BY day, type, action
	`,
	Down: `DROP VIEW IF EXISTS daily_engagement`,
}

// All lists every migration in application order.
var All = []schema.Migration{
	CreateEngagementEventsTable,
	CreateDailyEngagementView,
}
