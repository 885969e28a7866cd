// Package encoded implements the two composite decoders at the core of DEX parsing: the
// delta-chained item array and the exception handler table.
//
// # Decoding with context
//
// Every decoder in this package follows the same contract, expressed by Decoder:
//
//	Decode(data []byte, ctx C) (value T, consumed int, err error)
//
// The decoder reads from the start of data and reports how many bytes it used. The
// caller owns the cursor and advances it by exactly that amount. The context carries
// whatever the decoder needs from its surroundings; for delta-chained items it is the
// absolute index of the previous item.
//
// # Delta-chained arrays
//
// Many DEX lists store each element's index as a difference from the element before it.
// DecodeItemArray folds over such a list, passing the previous item's ID as context to
// the next decode:
//
//	fields, n, err := encoded.DecodeItemArray(data, count, fieldDecoder)
//	if err != nil {
//	    return err
//	}
//	for i, f := range fields.All() {
//	    fmt.Println(i, f.ID())
//	}
//
// # Exception handler tables
//
// A code_item's try blocks refer to their handlers by byte offset into the trailing
// encoded_catch_handler_list. DecodeCatchHandlerList records the offset of every block
// so that a try's handler_off can be resolved with CatchHandlerList.ByOffset.
//
// # Memory and safety
//
// Decoders never copy or modify the input slice. Counts read from the input never drive
// allocation beyond what the remaining bytes could hold, and truncated input always
// fails with errs.ErrOutOfData rather than panicking. All functions are safe for
// concurrent use on a shared buffer.
package encoded
