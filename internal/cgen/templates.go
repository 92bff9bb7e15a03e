package cgen

const headerText = `#ifndef __FRAMES_H__
# define __FRAMES_H__

# include "type_def.h"


// --------------------------------------------
// public defines
//

// number of arguments for each frame
# define FRAME_NB_ARGS	{{.NbArgs}}

// fields offsets
# define FRAME_DEST_OFFSET	{{.Offsets.Dest}}
# define FRAME_ORIG_OFFSET	{{.Offsets.Orig}}
# define FRAME_T_ID_OFFSET	{{.Offsets.TID}}
# define FRAME_CMDE_OFFSET	{{.Offsets.Cmde}}
# define FRAME_STAT_OFFSET	{{.Offsets.Stat}}
# define FRAME_ARGV_OFFSET	{{.Offsets.Argv}}

{{range .Commands}}{{if .Defines}}// {{upper .Name}}
{{range .Defines}}# define {{.Name}}	{{hex .Value}}
{{end}}
{{end}}{{end}}
// --------------------------------------------
// public types
//

typedef enum {
{{range .Commands}}	FR_{{upper .Name}} = {{hex .ID}},
{{range lines .Doc}}	// {{.}}
{{end}}
{{end}}} fr_cmdes_t;


// frame format (header + arguments), FRAME_ARGV_OFFSET + FRAME_NB_ARGS octets
typedef struct __attribute__((packed)) {
	u8 dest;				// message destination
	u8 orig;				// message origin
	u8 t_id;				// transaction identifier
	u8 cmde;				// message command (fr_cmdes_t)
	union {
		u8 status;			// status field
		struct {			// and its sub-parts, LSB first
			u8 len:3;		// length / number of arguments
			u8 serial:1;	// serial nat flag
			u8 eth:1;		// eth nat flag
			u8 time_out:1;	// time-out flag
			u8 resp:1;		// response flag
			u8 error:1;		// error flag
		};
	};
	u8 argv[FRAME_NB_ARGS];	// msg command argument(s) if any
} frame_t;


{{range upto .NbArgs}}extern u8 frame_set_{{.}}(frame_t* fr, u8 dest, u8 orig, fr_cmdes_t cmde{{range seq .}}, u8 argv{{.}}{{end}});

{{end}}
#endif	// __FRAMES_H__
`

const sourceText = `#include "{{header}}"


{{range upto .NbArgs}}u8 frame_set_{{.}}(frame_t* fr, u8 dest, u8 orig, fr_cmdes_t cmde{{range seq .}}, u8 argv{{.}}{{end}})
{
	fr->dest = dest;
	fr->orig = orig;
	fr->cmde = cmde;
	fr->status = 0;
	fr->len = {{.}};
{{range seq .}}	fr->argv[{{.}}] = argv{{.}};
{{end}}
	return OK;
}


{{end}}`
