package service

// MutationOption narrows a deck or card mutation.
type MutationOption func(*mutationOptions)

type mutationOptions struct {
	actorID string
	deckID  string
}

// AsUser performs the mutation on behalf of userID. The deck being changed
// must then be owned by userID, or be unowned.
func AsUser(userID string) MutationOption {
	return func(o *mutationOptions) { o.actorID = userID }
}

// InDeck requires the card being changed to belong to deckID.
func InDeck(deckID string) MutationOption {
	return func(o *mutationOptions) { o.deckID = deckID }
}

func applyOptions(opts []MutationOption) mutationOptions {
	var o mutationOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
