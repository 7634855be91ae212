package engine

// Column names exactly as they appear in the dataset header.
const (
	ColCountry        = "Country"
	ColYear           = "Year"
	ColAttackType     = "Attack Type"
	ColTargetIndustry = "Target Industry"
	ColFinancialLoss  = "Financial Loss (in Million $)"
	ColAffectedUsers  = "Number of Affected Users"
	ColAttackSource   = "Attack Source"
	ColVulnerability  = "Security Vulnerability Type"
	ColDefense        = "Defense Mechanism Used"
	ColResolutionTime = "Incident Resolution Time (in Hours)"
)

// RequiredColumns lists the ten columns every incident dataset must carry.
var RequiredColumns = []string{
	ColCountry, ColYear, ColAttackType, ColTargetIndustry,
	ColFinancialLoss, ColAffectedUsers,
	ColAttackSource, ColVulnerability,
	ColDefense, ColResolutionTime,
}

// Dimension identifies a dictionary-encoded categorical column.
type Dimension int

const (
	Country Dimension = iota
	AttackType
	TargetIndustry
	AttackSource
	VulnerabilityType
	DefenseMechanism
	numDimensions
)

var dimensionColumns = [numDimensions]string{
	Country:           ColCountry,
	AttackType:        ColAttackType,
	TargetIndustry:    ColTargetIndustry,
	AttackSource:      ColAttackSource,
	VulnerabilityType: ColVulnerability,
	DefenseMechanism:  ColDefense,
}

// Column returns the header name backing the dimension.
func (d Dimension) Column() string { return dimensionColumns[d] }

// Dictionary holds a categorical column as IDs (one per row) plus the
// distinct values. IDs are assigned in first-seen order.
type Dictionary struct {
	IDs    []int32
	Values []string
	index  map[string]int32
}

func newDictionary() *Dictionary {
	return &Dictionary{index: make(map[string]int32)}
}

func (d *Dictionary) add(v string) {
	id, ok := d.index[v]
	if !ok {
		id = int32(len(d.Values))
		d.Values = append(d.Values, v)
		d.index[v] = id
	}
	d.IDs = append(d.IDs, id)
}

// Len returns the number of distinct values.
func (d *Dictionary) Len() int { return len(d.Values) }

// Label returns the value at row i.
func (d *Dictionary) Label(row int) string { return d.Values[d.IDs[row]] }

// Lookup returns the ID of v, if v occurs in the column.
func (d *Dictionary) Lookup(v string) (int32, bool) {
	id, ok := d.index[v]
	return id, ok
}

// Incident is one row of the dataset.
type Incident struct {
	Country           string
	Year              int
	AttackType        string
	TargetIndustry    string
	FinancialLoss     float64
	AffectedUsers     int64
	AttackSource      string
	VulnerabilityType string
	DefenseMechanism  string
	ResolutionHours   float64
}

// ColumnStore holds the incident table in struct-of-arrays form. A column
// absent from the source header stays empty; callers check Has/Missing
// before touching it. The store is never modified once loading returns.
type ColumnStore struct {
	// Columns is the header as read, in file order.
	Columns []string

	// Numeric columns (flat arrays)
	Years           []int32
	Losses          []float64
	AffectedUsers   []int64
	ResolutionHours []float64

	dims    [numDimensions]*Dictionary
	present map[string]bool
	rows    int
}

func newColumnStore(columns []string) *ColumnStore {
	cs := &ColumnStore{
		Columns: append([]string(nil), columns...),
		present: make(map[string]bool, len(columns)),
	}
	for _, c := range columns {
		cs.present[c] = true
	}
	for d := range cs.dims {
		cs.dims[d] = newDictionary()
	}
	return cs
}

// FromIncidents builds a store from in-memory rows. When columns is empty
// the store carries all RequiredColumns; otherwise only the named columns
// are populated, as if the file header had listed just those.
func FromIncidents(incidents []Incident, columns ...string) *ColumnStore {
	if len(columns) == 0 {
		columns = RequiredColumns
	}
	cs := newColumnStore(columns)
	for _, in := range incidents {
		cs.append(in)
	}
	return cs
}

func (cs *ColumnStore) append(in Incident) {
	if cs.present[ColYear] {
		cs.Years = append(cs.Years, int32(in.Year))
	}
	if cs.present[ColFinancialLoss] {
		cs.Losses = append(cs.Losses, in.FinancialLoss)
	}
	if cs.present[ColAffectedUsers] {
		cs.AffectedUsers = append(cs.AffectedUsers, in.AffectedUsers)
	}
	if cs.present[ColResolutionTime] {
		cs.ResolutionHours = append(cs.ResolutionHours, in.ResolutionHours)
	}
	labels := [numDimensions]string{
		Country:           in.Country,
		AttackType:        in.AttackType,
		TargetIndustry:    in.TargetIndustry,
		AttackSource:      in.AttackSource,
		VulnerabilityType: in.VulnerabilityType,
		DefenseMechanism:  in.DefenseMechanism,
	}
	for d, v := range labels {
		if cs.present[dimensionColumns[d]] {
			cs.dims[d].add(v)
		}
	}
	cs.rows++
}

// Len returns the record count.
func (cs *ColumnStore) Len() int { return cs.rows }

// Has reports whether the named column was present in the source header.
func (cs *ColumnStore) Has(column string) bool { return cs.present[column] }

// Missing returns the subset of columns that are absent, in argument order.
func (cs *ColumnStore) Missing(columns ...string) []string {
	var missing []string
	for _, c := range columns {
		if !cs.present[c] {
			missing = append(missing, c)
		}
	}
	return missing
}

func (cs *ColumnStore) require(columns ...string) error {
	if missing := cs.Missing(columns...); len(missing) > 0 {
		return &SchemaError{Missing: missing}
	}
	return nil
}

// Dim returns the dictionary for a categorical column.
func (cs *ColumnStore) Dim(d Dimension) *Dictionary { return cs.dims[d] }

// Row materialises record i. Fields of absent columns are left zero.
func (cs *ColumnStore) Row(i int) Incident {
	var in Incident
	if cs.present[ColYear] {
		in.Year = int(cs.Years[i])
	}
	if cs.present[ColFinancialLoss] {
		in.FinancialLoss = cs.Losses[i]
	}
	if cs.present[ColAffectedUsers] {
		in.AffectedUsers = cs.AffectedUsers[i]
	}
	if cs.present[ColResolutionTime] {
		in.ResolutionHours = cs.ResolutionHours[i]
	}
	label := func(d Dimension) string {
		if !cs.present[dimensionColumns[d]] {
			return ""
		}
		return cs.dims[d].Label(i)
	}
	in.Country = label(Country)
	in.AttackType = label(AttackType)
	in.TargetIndustry = label(TargetIndustry)
	in.AttackSource = label(AttackSource)
	in.VulnerabilityType = label(VulnerabilityType)
	in.DefenseMechanism = label(DefenseMechanism)
	return in
}
