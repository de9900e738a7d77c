// Command talkline converts MPEG-7 speaker annotation documents into exact
// tick-based timelines and answers active-speaker queries against them.
package main
