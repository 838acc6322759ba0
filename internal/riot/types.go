package riot

// PlayerRef identifies one tracked player across lookups.
type PlayerRef struct {
	PUUID string
	Name  string
	Tag   string
}

func (p PlayerRef) RiotID() string {
	return p.Name + "#" + p.Tag
}

// Account is the account-v1 by-riot-id response.
type Account struct {
	PUUID    string `json:"puuid"`
	GameName string `json:"gameName"`
	TagLine  string `json:"tagLine"`
}

// Participant is one player's slice of a match-v5 record.
type Participant struct {
	PUUID          string `json:"puuid"`
	RiotIDGameName string `json:"riotIdGameName"`
	RiotIDTagline  string `json:"riotIdTagline"`
	ChampionName   string `json:"championName"`
	TeamPosition   string `json:"teamPosition"`
	Kills          int    `json:"kills"`
	Deaths         int    `json:"deaths"`
	Assists        int    `json:"assists"`
}

// Match is the subset of a match-v5 record the bot reads.
type Match struct {
	Metadata struct {
		MatchID string `json:"matchId"`
	} `json:"metadata"`
	Info struct {
		QueueID            int           `json:"queueId"`
		GameDuration       int64         `json:"gameDuration"`
		GameStartTimestamp int64         `json:"gameStartTimestamp"`
		Participants       []Participant `json:"participants"`
	} `json:"info"`
}

// TFTParticipant is one player's slice of a tft-match-v1 record.
type TFTParticipant struct {
	PUUID     string `json:"puuid"`
	Placement int    `json:"placement"`
}

// TFTMatch is the subset of a tft-match-v1 record the bot reads.
// The TFT endpoints use snake_case field names.
type TFTMatch struct {
	Metadata struct {
		MatchID string `json:"match_id"`
	} `json:"metadata"`
	Info struct {
		QueueID      int              `json:"queue_id"`
		GameLength   float64          `json:"game_length"`
		GameDatetime int64            `json:"game_datetime"`
		Participants []TFTParticipant `json:"participants"`
	} `json:"info"`
}
