/*

Process of assembly

Assembly Text ->
	pass1 (labels) ->
Symbol Table ->
	pass2 (variables, encoding) ->
Machine Words ->
	format ->
Binary Text (.hack)

Machine Words ->
	decode ->
Assembly Text

*/
package assembler
