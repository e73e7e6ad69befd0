/*
Package format decodes HFST optimized-lookup transducer images.

An image is an optional HFST3 container header ("HFST\0", length, key/value
pairs), followed by the optimized-lookup header, the alphabet as NUL-terminated
strings, the transition index table and the transition table. Parse validates
every table reference up front, so the lookup traversal can follow targets
without further checks.
*/
package format
