package kernel

type ApplicationID string

func NewApplicationID(id string) ApplicationID { return ApplicationID(id) }
func (a ApplicationID) String() string         { return string(a) }
func (a ApplicationID) IsEmpty() bool          { return string(a) == "" }

type VerificationID string

func NewVerificationID(id string) VerificationID { return VerificationID(id) }
func (v VerificationID) String() string          { return string(v) }
func (v VerificationID) IsEmpty() bool           { return string(v) == "" }

type JobID string

func NewJobID(id string) JobID { return JobID(id) }
func (j JobID) String() string { return string(j) }
func (j JobID) IsEmpty() bool  { return string(j) == "" }
