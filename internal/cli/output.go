package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

var errNoPlayerID = errors.New("no player id configured; register first or pass --player-id")

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case RegisterResult:
		o.printRegisterResult(v)
	case StatusResult:
		o.printStatusResult(v)
	case Player:
		o.printPlayer(v)
	case Leaderboard:
		o.printLeaderboard(v)
	case StartRunResult:
		fmt.Printf("Run started: %s\n", v.RunID)
	case SubmitResult:
		fmt.Printf("Accepted. Best today: %d\n", v.Best)
	case PurchaseResult:
		o.printPurchaseResult(v)
	case UseItemResult:
		o.printUseItemResult(v)
	case Grants:
		o.printGrants(v)
	case *Winner:
		o.printWinner(v)
	case Winners:
		o.printWinners(v)
	case VerifyResult:
		o.printVerifyResult(v)
	case HealthResult:
		fmt.Printf("Status: %s\n", v.Status)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// RegisterResult is the registration response
type RegisterResult struct {
	PlayerID  string `json:"playerId"`
	Name      string `json:"name"`
	Credits   int    `json:"credits"`
	Day       string `json:"day"`
	ClaimCode string `json:"claimCode"`
}

// StatusResult is the server status response
type StatusResult struct {
	Day        string         `json:"day"`
	ItemPrices map[string]int `json:"itemPrices"`
	Prize      int            `json:"prize"`
}

// Player is a player profile response
type Player struct {
	PlayerID          string         `json:"playerId"`
	Name              string         `json:"name"`
	Credits           int            `json:"credits"`
	FlashShieldActive bool           `json:"flashShieldActive"`
	SaveFromReset     int            `json:"saveFromReset"`
	Inventory         map[string]int `json:"inventory"`
	ClaimCode         string         `json:"claimCode"`
}

// LeaderboardEntry is one leaderboard row
type LeaderboardEntry struct {
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
	Score    int    `json:"score"`
}

// Leaderboard is the current day's board
type Leaderboard struct {
	Day     string             `json:"day"`
	Entries []LeaderboardEntry `json:"entries"`
}

// StartRunResult is the start-run response
type StartRunResult struct {
	RunID string `json:"runId"`
}

// SubmitResult is the submit-score response
type SubmitResult struct {
	OK   bool `json:"ok"`
	Best int  `json:"best"`
}

// PurchaseResult is the purchase response
type PurchaseResult struct {
	Credits           int            `json:"credits"`
	FlashShieldActive bool           `json:"flashShieldActive"`
	SaveFromReset     int            `json:"saveFromReset"`
	Inventory         map[string]int `json:"inventory"`
	Prize             int            `json:"prize"`
}

// UseItemResult is the use-item response
type UseItemResult struct {
	OK      bool `json:"ok"`
	Flashed int  `json:"flashed,omitempty"`
}

// Grants is the drained pending grants response
type Grants struct {
	Grants map[string]int `json:"grants"`
}

// Winner is a winner record response
type Winner struct {
	Day        string     `json:"day"`
	PlayerID   string     `json:"playerId"`
	Name       string     `json:"name"`
	Score      int        `json:"score"`
	Prize      int        `json:"prize"`
	Paid       bool       `json:"paid"`
	Verified   bool       `json:"verified"`
	VerifiedAt *time.Time `json:"verifiedAt,omitempty"`
}

// Winners is a list of winner records
type Winners struct {
	Winners []Winner `json:"winners"`
}

// VerifyResult is the claim verification response
type VerifyResult struct {
	OK     bool   `json:"ok"`
	Winner Winner `json:"winner"`
}

// HealthResult is the health check response
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printRegisterResult(r RegisterResult) {
	fmt.Printf("Registered: %s\n", r.Name)
	fmt.Printf("  Player ID:  %s\n", r.PlayerID)
	fmt.Printf("  Credits:    %d\n", r.Credits)
	fmt.Printf("  Day:        %s\n", r.Day)
	fmt.Printf("  Claim code: %s\n", r.ClaimCode)
}

func (o *Output) printStatusResult(s StatusResult) {
	fmt.Printf("Day:   %s\n", s.Day)
	fmt.Printf("Prize: %d\n", s.Prize)
	if len(s.ItemPrices) > 0 {
		fmt.Println("Prices:")
		for item, price := range s.ItemPrices {
			fmt.Printf("  %-18s %d\n", item, price)
		}
	}
}

func (o *Output) printPlayer(p Player) {
	fmt.Printf("Player: %s\n", p.Name)
	fmt.Printf("  ID:           %s\n", p.PlayerID)
	fmt.Printf("  Credits:      %d\n", p.Credits)
	fmt.Printf("  Flash shield: %t\n", p.FlashShieldActive)
	fmt.Printf("  Reset saves:  %d\n", p.SaveFromReset)
	fmt.Printf("  Claim code:   %s\n", p.ClaimCode)
	if len(p.Inventory) > 0 {
		fmt.Println("  Inventory:")
		for item, count := range p.Inventory {
			fmt.Printf("    %-18s x%d\n", item, count)
		}
	}
}

func (o *Output) printLeaderboard(l Leaderboard) {
	fmt.Printf("Leaderboard for %s\n", l.Day)
	if len(l.Entries) == 0 {
		fmt.Println("  (empty)")
		return
	}
	for i, e := range l.Entries {
		fmt.Printf("  %3d. %-16s %d\n", i+1, e.Name, e.Score)
	}
}

func (o *Output) printPurchaseResult(p PurchaseResult) {
	fmt.Printf("Purchased. Credits left: %d\n", p.Credits)
	fmt.Printf("  Prize pool: %d\n", p.Prize)
	if p.FlashShieldActive {
		fmt.Println("  Flash shield is active")
	}
	if p.SaveFromReset > 0 {
		fmt.Printf("  Reset saves: %d\n", p.SaveFromReset)
	}
	if len(p.Inventory) > 0 {
		fmt.Println("  Inventory:")
		for item, count := range p.Inventory {
			fmt.Printf("    %-18s x%d\n", item, count)
		}
	}
}

func (o *Output) printUseItemResult(u UseItemResult) {
	if u.Flashed > 0 {
		fmt.Printf("Used. Flashed %d player(s)\n", u.Flashed)
		return
	}
	fmt.Println("Used.")
}

func (o *Output) printGrants(g Grants) {
	if len(g.Grants) == 0 {
		fmt.Println("No pending grants")
		return
	}
	fmt.Println("Granted:")
	for item, count := range g.Grants {
		fmt.Printf("  %-18s x%d\n", item, count)
	}
}

func (o *Output) printWinner(w *Winner) {
	if w == nil {
		fmt.Println("No winner recorded")
		return
	}
	fmt.Printf("Winner for %s: %s\n", w.Day, w.Name)
	fmt.Printf("  Player ID: %s\n", w.PlayerID)
	fmt.Printf("  Score:     %d\n", w.Score)
	fmt.Printf("  Prize:     %d\n", w.Prize)
	fmt.Printf("  Verified:  %t\n", w.Verified)
	if w.VerifiedAt != nil {
		fmt.Printf("  At:        %s\n", w.VerifiedAt.Format(time.RFC3339))
	}
	fmt.Printf("  Paid:      %t\n", w.Paid)
}

func (o *Output) printWinners(ws Winners) {
	if len(ws.Winners) == 0 {
		fmt.Println("No winners recorded")
		return
	}
	for _, w := range ws.Winners {
		status := "unverified"
		if w.Verified {
			status = "verified"
		}
		fmt.Printf("  %s  %-16s %6d  prize %d  %s\n", w.Day, w.Name, w.Score, w.Prize, status)
	}
}

func (o *Output) printVerifyResult(v VerifyResult) {
	fmt.Println("Claim verified.")
	o.printWinner(&v.Winner)
}

// formatIntervals renders a float slice for verbose logging
func formatIntervals(vals []float64) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = fmt.Sprintf("%.1f", v)
	}
	return strings.Join(parts, ",")
}
