// Package formatting converts raw report values into display strings for a
// fixed en-US locale and USD currency.
//
// Every function is pure: the same input always produces the same output,
// which lets the document, workbook and CSV serializers render identical
// text for the same snapshot field.
package formatting
