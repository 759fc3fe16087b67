package postgres

var schema = []string{
	`CREATE TABLE IF NOT EXISTS daily_delivery (
		id          BIGSERIAL PRIMARY KEY,
		batch_id    VARCHAR(32)    NOT NULL,
		date        DATE           NOT NULL,
		channel     VARCHAR(32)    NOT NULL,
		creative    TEXT           NOT NULL DEFAULT '',
		spend       NUMERIC(18, 6) NOT NULL,
		starts      BIGINT,
		q25         BIGINT,
		q50         BIGINT,
		q75         BIGINT,
		q100        BIGINT,
		impressions BIGINT,
		clicks      BIGINT,
		visits      BIGINT,
		created_at  TIMESTAMPTZ    NOT NULL DEFAULT NOW(),
		updated_at  TIMESTAMPTZ    NOT NULL DEFAULT NOW(),
		UNIQUE (date, channel, creative)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_daily_delivery_channel_date ON daily_delivery (channel, date)`,
	`CREATE TABLE IF NOT EXISTS dashboard_snapshots (
		id         BIGSERIAL PRIMARY KEY,
		batch_id   VARCHAR(32) NOT NULL,
		start_date DATE        NOT NULL,
		end_date   DATE        NOT NULL,
		data       JSONB       NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_dashboard_snapshots_created_at ON dashboard_snapshots (created_at DESC)`,
}
