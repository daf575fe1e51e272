package sqlagent

// fullSchema describes the NFL statistics database the agent queries. It is
// consumed, not owned: table bootstrap and ETL live elsewhere. The JSON shape
// (pk/columns/fks/unique per table) is what both the schema-retrieval call
// and the SQL loop see.
const fullSchema = `{
  "teams": {
    "pk": ["id"],
    "columns": {
      "id": "SERIAL",
      "team_id": "INTEGER",
      "team_abbr": "VARCHAR(10)",
      "team_name": "VARCHAR(100)",
      "team_nick": "VARCHAR(100)",
      "team_conf": "VARCHAR(10)",
      "team_division": "VARCHAR(10)"
    },
    "fks": {},
    "unique": []
  },
  "players": {
    "pk": ["gsis_id"],
    "columns": {
      "gsis_id": "VARCHAR(50)",
      "nfl_id": "VARCHAR(50)",
      "pfr_id": "VARCHAR(50)",
      "espn_id": "VARCHAR(50)",
      "display_name": "VARCHAR(100)",
      "common_first_name": "VARCHAR(50)",
      "first_name": "VARCHAR(50)",
      "last_name": "VARCHAR(50)",
      "short_name": "VARCHAR(50)",
      "football_name": "VARCHAR(50)",
      "suffix": "VARCHAR(10)",
      "birth_date": "DATE",
      "position_group": "VARCHAR(20)",
      "position": "VARCHAR(10)",
      "height": "SMALLINT",
      "weight": "SMALLINT",
      "college_name": "VARCHAR(100)",
      "college_conference": "VARCHAR(50)",
      "jersey_number": "SMALLINT",
      "rookie_season": "SMALLINT",
      "last_season": "SMALLINT",
      "latest_team_id": "INTEGER",
      "status": "VARCHAR(20)",
      "years_of_experience": "SMALLINT",
      "draft_year": "SMALLINT",
      "draft_round": "SMALLINT",
      "draft_pick": "SMALLINT",
      "draft_team_id": "INTEGER"
    },
    "fks": {
      "latest_team_id": "teams.id",
      "draft_team_id": "teams.id"
    },
    "unique": [["nfl_id"], ["pfr_id"], ["espn_id"]]
  },
  "player_aliases": {
    "pk": ["alias_id"],
    "columns": {
      "alias_id": "INT",
      "player_id": "TEXT",
      "alias": "TEXT",
      "created_at": "TIMESTAMP"
    },
    "fks": {
      "player_id": "players.gsis_id"
    },
    "unique": [["player_id", "alias"]]
  },
  "team_game_stats": {
    "pk": ["id"],
    "columns": {
      "id": "BIGSERIAL",
      "game_id": "TEXT",
      "season": "SMALLINT",
      "week": "SMALLINT",
      "game_type": "TEXT (values: 'REG','POST','PRE')",
      "team_id": "INTEGER",
      "opponent_team_id": "INTEGER",
      "home_away": "TEXT (values: 'HOME','AWAY')",
      "points_for": "INTEGER",
      "points_against": "INTEGER",
      "point_diff": "INTEGER",
      "result": "TEXT (values: 'W','L','T')",
      "total_plays": "INTEGER",
      "total_drives": "INTEGER",
      "completions": "INTEGER",
      "attempts": "INTEGER",
      "passing_yards": "INTEGER",
      "passing_tds": "INTEGER",
      "passing_interceptions": "INTEGER",
      "sacks_suffered": "INTEGER",
      "passing_epa": "DOUBLE PRECISION",
      "passing_cpoe": "DOUBLE PRECISION",
      "carries": "INTEGER",
      "rushing_yards": "INTEGER",
      "rushing_tds": "INTEGER",
      "rushing_fumbles": "INTEGER",
      "rushing_epa": "DOUBLE PRECISION",
      "receptions": "INTEGER",
      "targets": "INTEGER",
      "receiving_yards": "INTEGER",
      "receiving_tds": "INTEGER",
      "receiving_epa": "DOUBLE PRECISION",
      "def_sacks": "DOUBLE PRECISION",
      "def_interceptions": "INTEGER",
      "def_tds": "INTEGER",
      "defense_epa_total": "DOUBLE PRECISION",
      "penalties": "INTEGER",
      "penalty_yards": "INTEGER",
      "fg_made": "INTEGER",
      "fg_att": "INTEGER",
      "fg_long": "INTEGER",
      "fg_pct": "DOUBLE PRECISION",
      "pat_made": "INTEGER",
      "pat_att": "INTEGER",
      "created_at": "TIMESTAMPTZ"
    },
    "fks": {
      "team_id": "teams.id",
      "opponent_team_id": "teams.id"
    },
    "unique": [["team_id", "game_id"]]
  },
  "player_game_stats": {
    "pk": ["id"],
    "columns": {
      "id": "BIGSERIAL",
      "player_id": "TEXT",
      "game_id": "TEXT",
      "season": "SMALLINT",
      "week": "SMALLINT",
      "team_id": "INTEGER",
      "opponent_team_id": "INTEGER",
      "home_away": "TEXT (values: 'HOME','AWAY')",
      "game_type": "TEXT (values: 'REG','POST','PRE')",
      "snaps_offense": "INTEGER",
      "snaps_offense_pct": "DOUBLE PRECISION",
      "pass_att": "INTEGER",
      "pass_cmp": "INTEGER",
      "pass_yards": "INTEGER",
      "pass_td": "INTEGER",
      "interceptions": "INTEGER",
      "sacks": "INTEGER",
      "sack_yards": "INTEGER",
      "pass_first_downs": "INTEGER",
      "pass_air_yards": "INTEGER",
      "pass_yac_yards": "INTEGER",
      "pass_yards_per_att": "DOUBLE PRECISION",
      "pass_any_a": "DOUBLE PRECISION",
      "passer_rating": "DOUBLE PRECISION",
      "cpoe": "DOUBLE PRECISION",
      "pass_epa_total": "DOUBLE PRECISION",
      "pass_epa_per_play": "DOUBLE PRECISION",
      "pass_success_rate": "DOUBLE PRECISION",
      "rush_att": "INTEGER",
      "rush_yards": "INTEGER",
      "rush_td": "INTEGER",
      "rush_long": "INTEGER",
      "rush_first_downs": "INTEGER",
      "rush_fumbles": "INTEGER",
      "rush_epa_total": "DOUBLE PRECISION",
      "rush_epa_per_carry": "DOUBLE PRECISION",
      "rush_success_rate": "DOUBLE PRECISION",
      "targets": "INTEGER",
      "receptions": "INTEGER",
      "rec_yards": "INTEGER",
      "rec_td": "INTEGER",
      "rec_long": "INTEGER",
      "rec_first_downs": "INTEGER",
      "rec_air_yards": "INTEGER",
      "rec_yac_yards": "INTEGER",
      "rec_epa_total": "DOUBLE PRECISION",
      "rec_epa_per_target": "DOUBLE PRECISION",
      "rec_success_rate": "DOUBLE PRECISION",
      "team_pass_att": "INTEGER",
      "team_rush_att": "INTEGER",
      "team_targets": "INTEGER",
      "team_air_yards": "INTEGER",
      "target_share": "DOUBLE PRECISION",
      "air_yards_share": "DOUBLE PRECISION",
      "rush_attempt_share": "DOUBLE PRECISION",
      "created_at": "TIMESTAMPTZ"
    },
    "fks": {
      "player_id": "players.gsis_id",
      "team_id": "teams.id",
      "opponent_team_id": "teams.id"
    },
    "unique": [["player_id", "game_id"]]
  }
}`
