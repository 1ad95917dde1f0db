// Package codec encodes and decodes UTF-8 sequences of one to six bytes and
// classifies the byte length of the sequence at (or before) an offset.
//
// The codec follows the pre-RFC 3629 definition of UTF-8: a leading
// byte announces a sequence of up to six bytes, which covers every value in
// [0, 0x7FFFFFFF]. Decoding never fails. Invalid input is reported through the
// returned ok flag and recovered from as follows:
//
//   - a leading byte that matches no pattern decodes as itself, one byte long
//   - a sequence whose first continuation byte is missing or invalid decodes
//     as its raw leading byte, one byte long
//   - a sequence that breaks after one or more valid continuation bytes decodes
//     as FallbackCodepoint and consumes exactly the valid prefix
//
// Classification comes in two modes. Trusting mode reads only the leading
// byte's bit pattern and is correct for well-formed input. Validating mode
// additionally checks each continuation byte and always agrees with Decode on
// the number of bytes consumed.
package codec
