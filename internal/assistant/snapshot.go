package assistant

// Snapshot is the registry state a single chat turn sees. Both pipeline
// stages and the post-extraction validation read the same snapshot, so a
// turn stays internally consistent even while the ledger moves underneath.
type Snapshot struct {
	Items []ItemSnapshot
	Mine  []OwnContribution
}

// ItemSnapshot is the registry view handed to the model.
type ItemSnapshot struct {
	ID          uint
	Title       string
	Description string
	PriceTotal  int64 // cents
	PriceRaised int64 // cents
	IsFunded    bool
	IsGeneric   bool
}

// OwnContribution is one of the caller's existing pledges.
type OwnContribution struct {
	ID        uint
	ItemID    uint
	ItemTitle string
	Name      string
	Amount    int64 // cents
}

func (s Snapshot) item(id uint) (ItemSnapshot, bool) {
	for _, it := range s.Items {
		if it.ID == id {
			return it, true
		}
	}
	return ItemSnapshot{}, false
}

func (s Snapshot) ownContribution(id uint) (OwnContribution, bool) {
	for _, c := range s.Mine {
		if c.ID == id {
			return c, true
		}
	}
	return OwnContribution{}, false
}
