// Package song defines the compiled timeline shared by every tonescribe
// grammar, renderer and linker.
//
// A Song is an ordered list of events (tones and rests) stamped with absolute
// start times in seconds, plus the errors found while compiling it. Compilers
// produce Songs; the square-wave renderer and the linkers consume them.
//
//	s := musicstring.New().Compile("t90 c d e", 0, math.MaxInt)
//	if err := s.Err(); err != nil {
//	    return err
//	}
//	for _, ev := range s.Events {
//	    switch ev := ev.(type) {
//	    case song.Tone:
//	        fmt.Println(ev.Time, ev.Freq)
//	    case song.Rest:
//	        fmt.Println(ev.Time, "rest")
//	    }
//	}
package song
