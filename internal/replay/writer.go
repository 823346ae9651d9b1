package replay

import (
	"encoding/csv"
	"io"
	"slices"
	"strconv"

	"github.com/MarkoPoloResearchLab/payments/pkg/engine"
)

// snapshotScale is the number of fractional digits in rendered balances.
const snapshotScale = 4

// WriteSnapshot renders the final account state as CSV. Rows are sorted by
// client for deterministic output; the engine itself guarantees no order.
// Total is available plus held at full precision, rounded afterwards.
func WriteSnapshot(destination io.Writer, replayEngine *engine.Engine) error {
	writer := csv.NewWriter(destination)
	if err := writer.Write([]string{"client", "total", "available", "held", "locked"}); err != nil {
		return err
	}

	clients := make([]engine.ClientID, 0)
	accounts := make(map[engine.ClientID]engine.Account)
	for clientID, account := range replayEngine.Accounts() {
		clients = append(clients, clientID)
		accounts[clientID] = account
	}
	slices.Sort(clients)

	for _, clientID := range clients {
		account := accounts[clientID]
		row := []string{
			strconv.FormatUint(uint64(clientID), 10),
			account.Total().StringFixedBank(snapshotScale),
			account.Available.StringFixedBank(snapshotScale),
			account.Held.StringFixedBank(snapshotScale),
			strconv.FormatBool(replayEngine.IsLocked(clientID)),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
