// Package stream encodes chat replies in the line-delimited data stream
// protocol understood by the chat frontend.
//
// Every line has the form "<tag>:<json>\n":
//
//	0:"text chunk"
//	e:{"finishReason":"stop","usage":{"promptTokens":10,"completionTokens":N},"isContinued":false}
//	d:{"finishReason":"stop","usage":{"promptTokens":10,"completionTokens":N}}
//
// Replies are split on newlines so a client renders them line by line.
package stream
