package migrations

import "abletech/common/database/schema"

var CreateEngagementEventsTable = schema.Migration{
	Version:     1,
	Description: "Create engagement events table",
	Up: `
		CREATE TABLE IF NOT EXISTS engagement_events (
			id UUID,
			type LowCardinality(String),
			actor String,
			item_id String,
			item_type LowCardinality(String),
			action LowCardinality(String),
			job_id String,
			occurred_at DateTime,
			payload String,
			PRIMARY KEY (type, occurred_at)
		) ENGINE = ReplacingMergeTree()
		PARTITION BY toYYYYMM(occurred_at)
		ORDER BY (type, occurred_at, id)
		SETTINGS index_granularity = 8192
	`,
	Down: `DROP TABLE IF EXISTS engagement_events`,
}
