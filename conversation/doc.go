// Package conversation manages multi-turn chat history on top of an
// [openrouter.ChatProvider].
//
// A Conversation keeps the system prompt first, appends user turns and
// assistant replies, and can be persisted to a JSON or YAML file or to any
// [Adapter]:
//
//	conv := conversation.New(c, "google/gemma-3n-e2b-it:free")
//	conv.SetSystem("You are a helpful math tutor.")
//	reply, err := conv.Send(ctx, "What is calculus?")
//
//	if err := conv.Save("math.yaml"); err != nil {
//	    log.Fatal(err)
//	}
//
// A Conversation is safe for concurrent use. Send holds no lock while
// waiting on the provider, so concurrent Send calls interleave their turns.
package conversation
