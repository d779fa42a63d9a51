package statsview

// DefaultAddress is used when New is given an empty address.
const DefaultAddress = "localhost:12600"

const chartsPath = "/debug/statsview"

// URL returns the address of the charts page.
func (s *Server) URL() string {
	return "http://" + s.addr + chartsPath
}
